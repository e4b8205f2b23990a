// ABOUTME: Auth flow controller for the two-step one-time-code login
// ABOUTME: Owns the session lifecycle and the validity guard used by gated operations

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mstanton/taskstash/internal/api"
	"github.com/mstanton/taskstash/internal/config"
	"github.com/mstanton/taskstash/internal/errs"
	"github.com/mstanton/taskstash/internal/session"
)

// Flow drives the login handshake and session validity checks. It is the
// only component that creates or destroys sessions; everything else treats
// the session as a capability token.
type Flow struct {
	cfg   *config.Config
	api   *api.Client
	store *session.Store

	// now is swappable for expiry-boundary tests.
	now func() time.Time
}

// New creates the auth flow over the given client and session store.
func New(cfg *config.Config, client *api.Client, store *session.Store) *Flow {
	return &Flow{cfg: cfg, api: client, store: store, now: time.Now}
}

// RequestCode asks the service to issue a one-time code for email. It does
// not create a session.
func (f *Flow) RequestCode(ctx context.Context, email string) (*api.CodeRequest, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return nil, fmt.Errorf("%w: email %v", errs.ErrValidation, err)
	}

	return f.api.RequestLoginCode(ctx, email)
}

// VerifyCode exchanges a one-time code for a session and persists it. This
// is the only path that creates a session.
func (f *Flow) VerifyCode(ctx context.Context, code string) (*session.Session, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	if err := validation.Validate(code, validation.Required); err != nil {
		return nil, fmt.Errorf("%w: code %v", errs.ErrValidation, err)
	}

	sess, err := f.api.VerifyLoginCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := f.store.Save(sess, f.cfg); err != nil {
		// Best-effort persistence: the session still works for this process.
		slog.Debug("could not persist session", "error", err)
	}
	return sess, nil
}

// Current returns the persisted session when it is still valid. An absent,
// stale, or expired session is purged and reported as ErrSessionExpired so
// gated operations surface one uniform condition instead of a transport
// error.
func (f *Flow) Current() (*session.Session, error) {
	sess := f.store.Load(f.cfg)
	if sess == nil {
		return nil, errs.ErrSessionExpired
	}
	if !sess.Valid(f.now()) {
		f.store.Clear()
		return nil, errs.ErrSessionExpired
	}
	return sess, nil
}

// Profile fetches the session owner's profile. Any failure of this call is
// treated as server-side revocation: the session is cleared and the caller
// sees the same condition as an expiry.
func (f *Flow) Profile(ctx context.Context) (*api.Profile, error) {
	sess, err := f.Current()
	if err != nil {
		return nil, err
	}

	profile, err := f.api.FetchProfile(ctx, sess.Token)
	if err != nil {
		f.SignOut()
		return nil, fmt.Errorf("%w: %v", errs.ErrSessionExpired, err)
	}
	return profile, nil
}

// SignOut clears the persisted session. Local only; it always succeeds and
// never contacts the network.
func (f *Flow) SignOut() {
	f.store.Clear()
}

func (f *Flow) ready() error {
	if f.cfg.Ready() {
		return nil
	}
	return fmt.Errorf("%w: %s", errs.ErrMissingConfig, strings.Join(f.cfg.Warnings(), "; "))
}

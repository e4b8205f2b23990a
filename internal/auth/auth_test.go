// ABOUTME: Tests for the auth flow controller
// ABOUTME: Verifies the login handshake, the validity guard, and revocation handling

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mstanton/taskstash/internal/api"
	"github.com/mstanton/taskstash/internal/config"
	"github.com/mstanton/taskstash/internal/errs"
	"github.com/mstanton/taskstash/internal/session"
)

type memBackend struct {
	data []byte
}

func (m *memBackend) Read() ([]byte, error) {
	if m.data == nil {
		return nil, errors.New("not found")
	}
	return m.data, nil
}
func (m *memBackend) Write(data []byte) error { m.data = data; return nil }
func (m *memBackend) Remove() error           { m.data = nil; return nil }

func testConfig(url string) *config.Config {
	return &config.Config{
		APIURL:       url,
		ProjectID:    7,
		HasProjectID: true,
		PublicKey:    "pk_test",
		ManageKey:    "mk_test",
		Collection:   "todos",
	}
}

func newFlow(t *testing.T, handler http.HandlerFunc) (*Flow, *session.Store, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	cfg := testConfig(server.URL)
	store := session.NewStore(&memBackend{})
	flow := New(cfg, api.New(cfg), store)
	return flow, store, server.Close
}

func TestRequestCode_MapsResponse(t *testing.T) {
	flow, _, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/app-users/login" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"sent":true,"token":"123456","magicLink":"https://x/verify","expires_in_minutes":15}}`))
	})
	defer done()

	result, err := flow.RequestCode(context.Background(), " a@b.com ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Issued || result.Code != "123456" || result.DeliveryLink != "https://x/verify" || result.ExpiresInMinutes != 15 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestRequestCode_EmptyEmailNoNetwork(t *testing.T) {
	calls := 0
	flow, _, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) { calls++ })
	defer done()

	_, err := flow.RequestCode(context.Background(), "   ")
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no network call, got %d", calls)
	}
}

func TestRequestCode_BadEmailRejected(t *testing.T) {
	flow, _, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) {})
	defer done()

	_, err := flow.RequestCode(context.Background(), "not-an-email")
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
}

func TestRequestCode_ConfigNotReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no network call")
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.ManageKey = ""
	flow := New(cfg, api.New(cfg), session.NewStore(&memBackend{}))

	_, err := flow.RequestCode(context.Background(), "a@b.com")
	if !errors.Is(err, errs.ErrMissingConfig) {
		t.Fatalf("Expected ErrMissingConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "TASKSTASH_MANAGE_KEY") {
		t.Errorf("Expected the missing item to be named, got %q", err)
	}
}

func TestVerifyCode_CreatesAndPersistsSession(t *testing.T) {
	expires := time.Now().Add(time.Hour).Format(time.RFC3339)
	flow, store, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/app-users/verify" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"session_token":"tok","expires_at":"` + expires + `","project_id":7,"email":"a@b.com"}}`))
	})
	defer done()

	sess, err := flow.VerifyCode(context.Background(), " 123456 ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sess.Token != "tok" || sess.Email != "a@b.com" || sess.ProjectID != 7 {
		t.Errorf("Unexpected session: %+v", sess)
	}

	persisted := store.Load(testConfig(flow.cfg.APIURL))
	if persisted == nil || persisted.Token != "tok" {
		t.Errorf("Expected session persisted, got %+v", persisted)
	}
}

func TestVerifyCode_EmptyCode(t *testing.T) {
	flow, _, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no network call")
	})
	defer done()

	_, err := flow.VerifyCode(context.Background(), "  ")
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
}

func TestCurrent_NoSession(t *testing.T) {
	flow, _, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) {})
	defer done()

	_, err := flow.Current()
	if !errors.Is(err, errs.ErrSessionExpired) {
		t.Fatalf("Expected ErrSessionExpired, got %v", err)
	}
}

func TestCurrent_ExpiryBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiresAt time.Time
		wantValid bool
	}{
		{"exactly now is expired", now, false},
		{"in the past", now.Add(-time.Second), false},
		{"a microsecond ahead", now.Add(time.Microsecond), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flow, store, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) {})
			defer done()
			flow.now = func() time.Time { return now }

			store.Save(&session.Session{
				Token:     "tok",
				ExpiresAt: tc.expiresAt.Format(time.RFC3339Nano),
			}, flow.cfg)

			_, err := flow.Current()
			if tc.wantValid && err != nil {
				t.Errorf("Expected valid session, got %v", err)
			}
			if !tc.wantValid {
				if !errors.Is(err, errs.ErrSessionExpired) {
					t.Errorf("Expected ErrSessionExpired, got %v", err)
				}
				// The guard purges, so the next load is absent too.
				if store.Load(flow.cfg) != nil {
					t.Error("Expected expired session to be purged")
				}
			}
		})
	}
}

func TestProfile_FailureForcesSignOut(t *testing.T) {
	flow, store, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"revoked"}`))
	})
	defer done()

	store.Save(&session.Session{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour).Format(time.RFC3339),
	}, flow.cfg)

	_, err := flow.Profile(context.Background())
	if !errors.Is(err, errs.ErrSessionExpired) {
		t.Fatalf("Expected ErrSessionExpired, got %v", err)
	}
	if store.Load(flow.cfg) != nil {
		t.Error("Expected session cleared after revocation")
	}
}

func TestProfile_Success(t *testing.T) {
	flow, store, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"data":{"id":3,"email":"a@b.com","project_id":7,"status":"active"}}`))
	})
	defer done()

	store.Save(&session.Session{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour).Format(time.RFC3339),
	}, flow.cfg)

	profile, err := flow.Profile(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if profile.Email != "a@b.com" || profile.ID != 3 {
		t.Errorf("Unexpected profile: %+v", profile)
	}
}

func TestSignOut_Idempotent(t *testing.T) {
	flow, store, done := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected sign-out to never touch the network")
	})
	defer done()

	store.Save(&session.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour).Format(time.RFC3339)}, flow.cfg)

	flow.SignOut()
	flow.SignOut()

	if store.Load(flow.cfg) != nil {
		t.Error("Expected no session after sign-out")
	}
}

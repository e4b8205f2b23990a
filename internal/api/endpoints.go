// ABOUTME: Typed endpoint wrappers for the hosted service API
// ABOUTME: Login handshake, profile, operator count, and record CRUD calls

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mstanton/taskstash/internal/errs"
	"github.com/mstanton/taskstash/internal/session"
)

// CodeRequest is the outcome of requesting a one-time login code. Code and
// DeliveryLink are only populated by test-mode backends; production
// backends deliver the code out of band.
type CodeRequest struct {
	Issued           bool
	Code             string
	DeliveryLink     string
	ExpiresInMinutes int
}

// Profile is the authenticated operator's server-side profile. It is
// fetched, never mutated locally.
type Profile struct {
	ID        int64          `json:"id"`
	Email     string         `json:"email"`
	ProjectID int64          `json:"project_id"`
	Status    string         `json:"status"`
	Metadata  map[string]any `json:"metadata"`
}

// Fields are the client-supplied fields of a record. Create and update
// both send the full set; updates are whole-record replacements.
type Fields struct {
	Title     string `json:"title"`
	Notes     string `json:"notes"`
	Completed bool   `json:"completed"`
}

// Record is one item in the user-scoped collection. Identity and
// timestamps are server-owned.
type Record struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	OwnerID   string `json:"owner_id,omitempty"`
}

// PageMeta is the server-reported pagination metadata for a list call.
type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// RequestLoginCode asks the service to issue a one-time code for email.
// Requires the public key and a configured project id.
func (c *Client) RequestLoginCode(ctx context.Context, email string) (*CodeRequest, error) {
	if !c.cfg.HasProjectID {
		return nil, fmt.Errorf("%w: project id", errs.ErrMissingConfig)
	}

	body := map[string]any{
		"email":      email,
		"project_id": c.cfg.ProjectID,
	}
	var resp struct {
		Data struct {
			Sent             bool   `json:"sent"`
			Token            string `json:"token"`
			MagicLink        string `json:"magicLink"`
			ExpiresInMinutes int    `json:"expires_in_minutes"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/app-users/login", body, CredPublic, "", &resp); err != nil {
		return nil, err
	}

	return &CodeRequest{
		Issued:           resp.Data.Sent,
		Code:             resp.Data.Token,
		DeliveryLink:     resp.Data.MagicLink,
		ExpiresInMinutes: resp.Data.ExpiresInMinutes,
	}, nil
}

// VerifyLoginCode exchanges a one-time code for a bearer session. This is
// the only call that produces a session. Requires the management key.
func (c *Client) VerifyLoginCode(ctx context.Context, code string) (*session.Session, error) {
	if !c.cfg.HasProjectID {
		return nil, fmt.Errorf("%w: project id", errs.ErrMissingConfig)
	}

	body := map[string]any{
		"token":      code,
		"project_id": c.cfg.ProjectID,
	}
	var resp struct {
		Data session.Session `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/app-users/verify", body, CredManage, "", &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// FetchProfile returns the profile of the session's owner.
func (c *Client) FetchProfile(ctx context.Context, token string) (*Profile, error) {
	var resp struct {
		Data Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/app-users/me", nil, CredSession, token, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// TotalAppUsers returns the operator count for the configured project.
// Either key is accepted; the public key is preferred when both are set.
func (c *Client) TotalAppUsers(ctx context.Context) (int, error) {
	if !c.cfg.HasProjectID {
		return 0, fmt.Errorf("%w: project id", errs.ErrMissingConfig)
	}

	cred := CredPublic
	if c.cfg.PublicKey == "" {
		cred = CredManage
	}
	var resp struct {
		Total int `json:"total"`
	}
	path := fmt.Sprintf("/api/projects/%d/app-users/total", c.cfg.ProjectID)
	if err := c.do(ctx, http.MethodGet, path, nil, cred, "", &resp); err != nil {
		return 0, err
	}
	return resp.Total, nil
}

// ListRecords fetches one page of the collection, ordered by creation
// time. meta is nil when the server omits pagination metadata.
func (c *Client) ListRecords(ctx context.Context, token, order string, limit, page int) ([]Record, *PageMeta, error) {
	path := fmt.Sprintf("%s?order=%s&limit=%d&page=%d",
		c.collectionPath(), url.QueryEscape(order), limit, page)
	var resp struct {
		Data []Record  `json:"data"`
		Meta *PageMeta `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, CredSession, token, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Meta, nil
}

// CreateRecord adds a record with the given fields.
func (c *Client) CreateRecord(ctx context.Context, token string, fields Fields) (*Record, error) {
	var resp struct {
		Data Record `json:"data"`
	}
	body := map[string]any{"data": fields}
	if err := c.do(ctx, http.MethodPost, c.collectionPath(), body, CredSession, token, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateRecord replaces all fields of the record with the given id.
func (c *Client) UpdateRecord(ctx context.Context, token, id string, fields Fields) (*Record, error) {
	var resp struct {
		Data Record `json:"data"`
	}
	body := map[string]any{"data": fields}
	path := c.collectionPath() + "/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, body, CredSession, token, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteRecord removes the record with the given id. The service performs
// a soft delete; the record simply stops appearing in listings.
func (c *Client) DeleteRecord(ctx context.Context, token, id string) error {
	path := c.collectionPath() + "/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, CredSession, token, nil)
}

func (c *Client) collectionPath() string {
	return "/app/collections/" + url.PathEscape(c.cfg.Collection) + "/records"
}

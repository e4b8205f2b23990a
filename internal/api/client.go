// ABOUTME: HTTP transport client for the hosted record service
// ABOUTME: Single chokepoint that builds URLs, attaches credentials, and parses responses

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mstanton/taskstash/internal/config"
	"github.com/mstanton/taskstash/internal/errs"
)

// Credential selects which credential accompanies a call.
type Credential int

const (
	// CredNone sends no credential.
	CredNone Credential = iota
	// CredPublic sends the configured public API key.
	CredPublic
	// CredManage sends the configured management API key.
	CredManage
	// CredSession sends a bearer session token.
	CredSession
)

// apiKeyHeader is the service's API-key header for public/manage calls.
const apiKeyHeader = "X-API-Key"

// Event describes the outcome of one outbound request, for optional
// presentation-layer instrumentation.
type Event struct {
	Method string
	Path   string
	Status int
	Err    error
}

// Client issues requests against the hosted service. All outbound calls
// go through do(); no other package constructs headers or URLs.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client

	// Notify, when set, is invoked after each request completes or fails.
	// The client never depends on it being attached.
	Notify func(Event)
}

// New creates a client for the configured service endpoint.
func New(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do performs one HTTP exchange. body may be nil, a string passed through
// verbatim, or any value serialized as JSON. On 2xx the response body is
// decoded into out when non-empty; an empty body leaves out at its zero
// value so callers can read it safely. Non-2xx responses become a
// *RequestError.
func (c *Client) do(ctx context.Context, method, path string, body any, cred Credential, token string, out any) error {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.attachCredential(req, cred, token); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.notify(Event{Method: method, Path: path, Err: err})
		return fmt.Errorf("cannot reach %s: %w", c.cfg.APIURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.notify(Event{Method: method, Path: path, Status: resp.StatusCode, Err: err})
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{
			Status:  resp.StatusCode,
			Message: errorMessage(raw, resp.StatusCode),
			Body:    string(raw),
		}
		c.notify(Event{Method: method, Path: path, Status: resp.StatusCode, Err: reqErr})
		slog.Debug("request failed", "method", method, "path", path, "status", resp.StatusCode)
		return reqErr
	}

	c.notify(Event{Method: method, Path: path, Status: resp.StatusCode})
	slog.Debug("request completed", "method", method, "path", path, "status", resp.StatusCode)

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("invalid response from %s: %w", c.cfg.APIURL, err)
		}
	}
	return nil
}

// attachCredential sets the header for the requested credential class,
// failing before any network I/O when the credential is absent.
func (c *Client) attachCredential(req *http.Request, cred Credential, token string) error {
	switch cred {
	case CredNone:
	case CredPublic:
		if c.cfg.PublicKey == "" {
			return fmt.Errorf("%w: public API key", errs.ErrMissingCredential)
		}
		req.Header.Set(apiKeyHeader, c.cfg.PublicKey)
	case CredManage:
		if c.cfg.ManageKey == "" {
			return fmt.Errorf("%w: management API key", errs.ErrMissingCredential)
		}
		req.Header.Set(apiKeyHeader, c.cfg.ManageKey)
	case CredSession:
		if token == "" {
			return fmt.Errorf("%w: session token", errs.ErrMissingCredential)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) notify(ev Event) {
	if c.Notify != nil {
		c.Notify(ev)
	}
}

// errorMessage extracts a human-readable message from an error response
// body. Some error responses are plain text, so a failed JSON parse falls
// back through the status text to a generic message.
func errorMessage(raw []byte, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}

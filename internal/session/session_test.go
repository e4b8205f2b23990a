// ABOUTME: Tests for session expiry validation
// ABOUTME: Verifies the strict-future boundary and timestamp format tolerance

package session

import (
	"testing"
	"time"
)

func TestValid_FutureExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{Token: "tok", ExpiresAt: now.Add(time.Hour).Format(time.RFC3339)}

	if !s.Valid(now) {
		t.Error("Expected session with future expiry to be valid")
	}
}

func TestValid_ExpiryExactlyNowIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{Token: "tok", ExpiresAt: now.Format(time.RFC3339)}

	if s.Valid(now) {
		t.Error("Expected expiry equal to now to count as expired")
	}
}

func TestValid_MicrosecondInFuture(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{Token: "tok", ExpiresAt: now.Add(time.Microsecond).Format(time.RFC3339Nano)}

	if !s.Valid(now) {
		t.Error("Expected expiry a microsecond in the future to be valid")
	}
}

func TestValid_UnparseableExpiry(t *testing.T) {
	s := &Session{Token: "tok", ExpiresAt: "sometime soon"}

	if s.Valid(time.Now()) {
		t.Error("Expected unparseable expiry to make the session invalid")
	}
}

func TestValid_EmptyToken(t *testing.T) {
	s := &Session{ExpiresAt: time.Now().Add(time.Hour).Format(time.RFC3339)}

	if s.Valid(time.Now()) {
		t.Error("Expected session without a token to be invalid")
	}
}

func TestValid_NilSession(t *testing.T) {
	var s *Session

	if s.Valid(time.Now()) {
		t.Error("Expected nil session to be invalid")
	}
}

func TestExpiryTime_AcceptedFormats(t *testing.T) {
	cases := []string{
		"2026-03-01T12:00:00Z",
		"2026-03-01T12:00:00.123456789Z",
		"2026-03-01T12:00:00",
		"2026-03-01 12:00:00",
	}
	for _, raw := range cases {
		s := &Session{Token: "tok", ExpiresAt: raw}
		if _, err := s.ExpiryTime(); err != nil {
			t.Errorf("Expected %q to parse, got %v", raw, err)
		}
	}
}

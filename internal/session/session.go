// ABOUTME: Bearer session type and expiry validation
// ABOUTME: A session is valid only while its expiry timestamp is strictly in the future

package session

import (
	"time"
)

// timeFormats are the timestamp layouts the service has been observed to
// emit for expires_at.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Session is the bearer credential produced by a successful code
// verification. ExpiresAt is kept in its wire form; an unparseable value
// makes the session invalid rather than failing elsewhere.
type Session struct {
	Token     string `json:"session_token"`
	ExpiresAt string `json:"expires_at"`
	ProjectID int64  `json:"project_id"`
	Email     string `json:"email"`
}

// ExpiryTime parses the session's expiry timestamp.
func (s *Session) ExpiryTime() (time.Time, error) {
	var err error
	for _, layout := range timeFormats {
		var t time.Time
		if t, err = time.Parse(layout, s.ExpiresAt); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// Valid reports whether the session carries a token and an expiry strictly
// after now. An expiry exactly equal to now counts as expired.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	exp, err := s.ExpiryTime()
	if err != nil {
		return false
	}
	return exp.After(now)
}

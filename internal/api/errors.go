// ABOUTME: Error types for the transport client
// ABOUTME: Wraps non-2xx responses into one inspectable RequestError

package api

import (
	"fmt"
	"net/http"
)

// RequestError represents a non-success HTTP response from the service.
// Message is best-effort: a JSON error/message field when the body has
// one, the HTTP status text otherwise, a generic string as last resort.
type RequestError struct {
	Status  int
	Message string
	Body    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unauthorized reports whether the response indicates a rejected or
// revoked credential.
func (e *RequestError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// ABOUTME: Sentinel errors shared across the client packages
// ABOUTME: Lets commands map failures to messages and exit codes with errors.Is

package errs

import "errors"

var (
	// ErrMissingCredential indicates a required API key or session token is
	// absent. Raised before any network call is attempted.
	ErrMissingCredential = errors.New("missing credential")

	// ErrMissingConfig indicates the project id or collection slug is not
	// configured.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrSessionExpired indicates there is no valid session for a gated
	// operation. The local session state has already been cleared.
	ErrSessionExpired = errors.New("access expired, sign in again")

	// ErrValidation indicates client-side input validation failed. The
	// request never reached the network.
	ErrValidation = errors.New("validation failed")
)

// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Error taxonomy for the sync engine. Remote clients wrap transport and
// protocol failures in these sentinels so callers can classify with
// errors.Is without inspecting HTTP internals.
var (
	// ErrNetwork indicates a transport-level failure reaching the API.
	ErrNetwork = errors.New("network error")
	// ErrInvalidResponse indicates a non-2xx status other than 401, or a
	// malformed response envelope.
	ErrInvalidResponse = errors.New("invalid server response")
	// ErrDecoding indicates a response body that does not match the
	// expected payload shape.
	ErrDecoding = errors.New("decoding error")
	// ErrUnauthorized indicates missing or invalid credentials that one
	// refresh attempt could not repair.
	ErrUnauthorized = errors.New("authentication required")
	// ErrUnknown covers failures outside the taxonomy.
	ErrUnknown = errors.New("unknown error")

	// ErrRateFetch is the single collapsed failure of the public rate
	// feed. The feed path intentionally has no finer taxonomy.
	ErrRateFetch = errors.New("rate fetch failed")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

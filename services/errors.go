package services

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailure covers bad credentials and wrong-surface logins.
	// User-visible; retry allowed.
	ErrAuthFailure = errors.New("invalid email or password")

	// ErrRoleMissing marks an identity with no role row. Routing treats
	// the holder as unauthenticated; the condition is logged as an
	// integrity concern, never crashed on.
	ErrRoleMissing = errors.New("account has no assigned role")

	// ErrNotAuthenticated is returned when an operation requiring a
	// signed-in user is attempted without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrListUnavailable wraps a failed base appointment query. Callers
	// surface it as an empty-state message, not a stack trace.
	ErrListUnavailable = errors.New("appointments are temporarily unavailable")
)

// ValidationError carries field-level validation failures from a booking
// or signup submission. The wrapped error is an ozzo validation.Errors
// map, which serializes per-field.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a field-level validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

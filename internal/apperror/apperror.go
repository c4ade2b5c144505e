// Package apperror defines the application's error taxonomy.
//
// THE SENTINEL ERROR PATTERN:
// Each failure class gets a package-level sentinel error (ErrValidation, etc.).
// Code that produces a failure wraps the sentinel in an *AppError carrying a
// human-readable message; code that reacts to a failure checks the class with
// errors.Is(err, apperror.ErrXxx). The HTTP layer maps each class to a status
// code in exactly one place (handler/response.go) — the rest of the app never
// thinks about status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is a client-input fault: a missing or empty required
	// field, or a send with neither text nor image. Never retried.
	ErrValidation = errors.New("validation error")

	// ErrDecode means an image payload could not be decoded — either the
	// base64 transport encoding or the image bytes themselves are malformed.
	// The caller must resubmit with a corrected payload.
	ErrDecode = errors.New("decode error")

	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("not found")
)

// AppError carries a sentinel (for classification) plus a message safe to
// show to the client.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable, client-safe
	Field   string // optional: the input field at fault
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports a bad client input on the given field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DecodeFailed reports an undecodable image payload.
func DecodeFailed(message string) *AppError {
	return &AppError{
		Err:     ErrDecode,
		Message: message,
	}
}

// NotFound reports a missing resource.
func NotFound(resource, name string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, name),
	}
}

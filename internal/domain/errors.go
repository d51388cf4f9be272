package domain

import "errors"

var (
	// ErrValidation marks client input errors (reported as 4xx).
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized marks missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries a human-readable message for the client.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

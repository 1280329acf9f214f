// Package common defines shared constants and sentinel errors used across
// the layers of filevault. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Request validation errors; concrete messages ride on ValidationError.
	ErrorValidation = errors.New("validation error")

	// Blob storage failures. Surfaced to the client with the underlying
	// message, since a bad payload is the usual cause.
	ErrorIO = errors.New("io failure")

	// Operation invalid for the entity's type.
	ErrorFolderHasNoContent = errors.New("a folder doesn't have content")
)

// ValidationError rejects a request with a client-facing message such as
// "Missing name" or "Parent is not a folder". Matches ErrorValidation
// under errors.Is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }

// NewValidationError wraps a client-facing rejection message.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// IOError carries an underlying filesystem or object-storage failure.
// Matches ErrorIO under errors.Is.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrorIO }

// NewIOError wraps a storage failure for the 400-class response path.
func NewIOError(err error) error {
	return &IOError{Err: err}
}

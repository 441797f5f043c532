package query

import (
	"errors"
	"fmt"
)

// StorageError wraps a failure reported by the store while executing an
// operation. It is never retried at this layer.
type StorageError struct {
	// Op names the executor operation, e.g. "entities".
	Op string

	// Err is the underlying driver or I/O failure.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying failure.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// InputError reports a caller-supplied argument the executor refuses.
type InputError struct {
	// Field names the offending argument.
	Field string

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsStorageError returns true if err is or wraps a *StorageError.
// Uses errors.As to handle wrapped errors.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsInputError returns true if err is or wraps an *InputError.
// Uses errors.As to handle wrapped errors.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

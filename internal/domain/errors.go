package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates a missing or unresolvable credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBackend marks failures of the store or identity backend itself, as
	// opposed to an empty result.
	ErrBackend = errors.New("backend failure")
)

// ValidationError describes malformed or incomplete user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

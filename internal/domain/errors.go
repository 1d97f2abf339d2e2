package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
// Callers collect every violation before failing so an API layer can show
// the user all problems at once.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ConstraintError is a store-detected referential, uniqueness or check
// constraint conflict. Constraint carries the violated constraint name,
// Field the offending column when it is recognizable.
type ConstraintError struct {
	Constraint string
	Field      string
	Message    string
}

func (e *ConstraintError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("constraint %s (%s): %s", e.Constraint, e.Field, e.Message)
	}
	return fmt.Sprintf("constraint %s: %s", e.Constraint, e.Message)
}

func (e *ConstraintError) Unwrap() error { return ErrConflict }

// StoreError wraps any store failure that does not map to a domain error.
// The original cause is preserved for diagnostics; callers treat it as an
// opaque internal failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: database error: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

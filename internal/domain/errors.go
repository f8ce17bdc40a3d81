package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
)

// Finding is a single field-level validation finding. Findings are plain
// data: producing one never halts a computation.
type Finding struct {
	Field   string
	Message string
}

// ValidationError provides programmatic access to field-level validation
// failures. Findings keep the order in which checks ran, so the same input
// always yields the same error text. Use errors.Is(err, ErrValidation) for
// simple checks, or errors.As(err, &verr) to access verr.Findings.
type ValidationError struct {
	Findings []Finding
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Findings))
	for _, f := range e.Findings {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError from ordered field/message
// pairs collected by a validator.
func NewValidationError(findings ...Finding) *ValidationError {
	return &ValidationError{Findings: findings}
}

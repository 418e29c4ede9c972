package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the store and services. Callers match them with
// errors.Is; handlers translate them into HTTP statuses.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("integrity conflict")
	ErrExternalService  = errors.New("external service failure")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail and unwraps to ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a single-field ValidationError.
func Invalid(field, tag, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Tag: tag, Message: message}}}
}

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Conflict wraps ErrConflict with a user-facing reason.
func Conflict(reason string) error {
	return fmt.Errorf("%w: %s", ErrConflict, reason)
}

// Forbidden wraps ErrPermissionDenied with the entity name.
func Forbidden(entity string) error {
	return fmt.Errorf("%w: %s belongs to another account", ErrPermissionDenied, entity)
}

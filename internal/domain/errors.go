package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the referenced record is absent or inactive.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEntity indicates a uniqueness violation.
	ErrDuplicateEntity = errors.New("record already exists")
	// ErrAuthenticationFailed covers both unknown accounts and wrong passwords.
	ErrAuthenticationFailed = errors.New("invalid email or password")
	// ErrTokenInvalid covers malformed, tampered and expired tokens alike.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrForbidden indicates the caller's role is not permitted.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError collects field level messages keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

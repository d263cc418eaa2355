package validator

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed is returned when validation fails but no specific error is provided.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidSchema is the root of every schema construction failure.
	ErrInvalidSchema = errors.New("invalid validation schema")

	// ErrInvalidSchemaDocument is returned when a YAML schema document cannot be decoded.
	ErrInvalidSchemaDocument = errors.New("invalid schema document")
)

// ConfigurationError describes a malformed schema definition.
// It is reported when the schema is built, never during evaluation.
type ConfigurationError struct {
	Field  string
	Index  int // rule position within the field, -1 for field-level problems
	Kind   Kind
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: field %q: %s", ErrInvalidSchema, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: field %q rule #%d (%s): %s", ErrInvalidSchema, e.Field, e.Index, e.Kind, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidSchema
}

func fieldConfigError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Index: -1, Reason: reason}
}

func ruleConfigError(field string, index int, kind Kind, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Index: index, Kind: kind, Reason: reason}
}

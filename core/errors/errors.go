// Package errors provides standardized error types and helpers for the ecsv codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrSchema indicates the embedded schema is malformed or inconsistent
	// with the tokenized data.
	ErrSchema = errors.New("schema error")
	// ErrConversion indicates a raw value could not be converted to its
	// declared column type.
	ErrConversion = errors.New("conversion error")
	// ErrUnsupported indicates an unsupported declaration or format feature
	ErrUnsupported = errors.New("unsupported")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// SchemaError represents a structural problem with the embedded schema:
// malformed header text, a missing required key, an unknown datatype
// keyword, or a column name/order mismatch against the tokenized data.
// Schema errors are fatal; they abort the whole read.
type SchemaError struct {
	Column  string // Column name, if the problem is scoped to one column
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema: column %q: %s", e.Column, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

// Unwrap exposes both the ErrSchema sentinel and the underlying cause,
// so errors.Is matches either through any amount of wrapping.
func (e *SchemaError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSchema, e.Err}
	}
	return []error{ErrSchema}
}

// ConversionError represents a per-value cast or decode failure: a text
// token that cannot be represented as the column's declared primitive or
// decoded per its declared array encoding. Conversion errors are fatal;
// no partial table is ever returned.
type ConversionError struct {
	Column string // Column being converted
	Value  string // Offending raw value
	Type   string // Target type description (e.g. "int32", "bool array")
	Err    error  // Underlying error, if any
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert: column %q: cannot convert %q to %s", e.Column, e.Value, e.Type)
}

func (e *ConversionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConversion, e.Err}
	}
	return []error{ErrConversion}
}

// UnsupportedError represents an unsupported declaration, such as a
// fixed- or multi-dimensional array subtype. These fail loudly rather
// than silently miscoding the column.
type UnsupportedError struct {
	Feature string // Feature or declaration that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUnsupported, e.Err}
	}
	return []error{ErrUnsupported}
}

// Helper functions for creating common errors

// NewSchema creates a SchemaError
func NewSchema(column, message string) *SchemaError {
	return &SchemaError{
		Column:  column,
		Message: message,
	}
}

// NewConversion creates a ConversionError
func NewConversion(column, value, typ string, err error) *ConversionError {
	return &ConversionError{
		Column: column,
		Value:  value,
		Type:   typ,
		Err:    err,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

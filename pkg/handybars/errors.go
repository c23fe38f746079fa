package handybars

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for parsing and rendering.
var (
	// ErrInvalidVariable indicates a variable path failed validation.
	ErrInvalidVariable = errors.New("invalid variable")

	// ErrMissingVariable indicates a variable could not be resolved.
	ErrMissingVariable = errors.New("missing variable")

	// ErrTriedToExpandObject indicates a variable resolved to an object
	// instead of a text value.
	ErrTriedToExpandObject = errors.New("tried to expand object")

	// ErrUnterminatedExpression indicates a placeholder opener without a
	// matching closer.
	ErrUnterminatedExpression = errors.New("unterminated expression")

	// ErrUnknownTemplate indicates a named template is not registered.
	ErrUnknownTemplate = errors.New("unknown template")
)

// InvalidVariableError describes why a variable path was rejected.
type InvalidVariableError struct {
	// Input is the text that was parsed (the placeholder body when the
	// error comes from rendering).
	Input string
	// Offset is the byte offset of the problem within Input.
	Offset int
	// Reason is a short description of the problem.
	Reason string
	// Line and Column locate the placeholder in the template (1-based).
	// Both are zero when the variable was not parsed from a template.
	Line   int
	Column int
}

// Error implements the error interface.
func (e *InvalidVariableError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid variable %q at line %d column %d: %s", e.Input, e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("invalid variable %q: %s at offset %d", e.Input, e.Reason, e.Offset)
}

// Unwrap returns ErrInvalidVariable for errors.Is support.
func (e *InvalidVariableError) Unwrap() error {
	return ErrInvalidVariable
}

// MissingVariableError carries the variable that could not be resolved.
// Variable is always the full requested path, not the failing prefix.
type MissingVariableError struct {
	Variable Variable
}

// Error implements the error interface.
func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing variable in template: '%s'", e.Variable)
}

// Unwrap returns ErrMissingVariable for errors.Is support.
func (e *MissingVariableError) Unwrap() error {
	return ErrMissingVariable
}

// ObjectExpansionError is returned when a placeholder resolves to an object.
type ObjectExpansionError struct {
	Variable Variable
}

// Error implements the error interface.
func (e *ObjectExpansionError) Error() string {
	return fmt.Sprintf("tried to expand object: '%s'", e.Variable)
}

// Unwrap returns ErrTriedToExpandObject for errors.Is support.
func (e *ObjectExpansionError) Unwrap() error {
	return ErrTriedToExpandObject
}

// UnterminatedExpressionError locates a "{{" that is never closed.
type UnterminatedExpressionError struct {
	// Offset is the byte offset of the opener in the template.
	Offset int
	// Line and Column are the 1-based position of the opener.
	Line   int
	Column int
}

// Error implements the error interface.
func (e *UnterminatedExpressionError) Error() string {
	return fmt.Sprintf("unterminated expression at line %d column %d", e.Line, e.Column)
}

// Unwrap returns ErrUnterminatedExpression for errors.Is support.
func (e *UnterminatedExpressionError) Unwrap() error {
	return ErrUnterminatedExpression
}

// UnsupportedTypeError is returned by ValueOf for Go values that have no
// Value representation (channels, functions, ...).
type UnsupportedTypeError struct {
	Type reflect.Type
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("handybars: unsupported type %s", e.Type)
}

// Kind labels for errors, used as metric and log attributes.
const (
	KindInvalidVariable        = "invalid_variable"
	KindMissingVariable        = "missing_variable"
	KindObjectExpansion        = "object_expansion"
	KindUnterminatedExpression = "unterminated_expression"
	KindUnknown                = "unknown"
)

// Kind returns a stable label for err. It returns "" for a nil error.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidVariable):
		return KindInvalidVariable
	case errors.Is(err, ErrMissingVariable):
		return KindMissingVariable
	case errors.Is(err, ErrTriedToExpandObject):
		return KindObjectExpansion
	case errors.Is(err, ErrUnterminatedExpression):
		return KindUnterminatedExpression
	default:
		return KindUnknown
	}
}

// position converts a byte offset in s into a 1-based line and column.
func position(s string, offset int) (line, column int) {
	line = 1
	lineStart := 0
	for i := 0; i < offset && i < len(s); i++ {
		if s[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}

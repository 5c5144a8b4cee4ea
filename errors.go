package zerv

import (
	"errors"
	"fmt"
)

// ErrMissingBaseVersion is returned when the repository has no version tag
// and no fallback base version was provided.
var ErrMissingBaseVersion = errors.New("no version tag found and no base version provided")

// SchemaError indicates a structurally invalid schema, such as an empty
// schema, a misplaced variable, or an out-of-range component index.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid schema: %s", e.Reason)
}

func schemaErrorf(format string, args ...any) error {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedSchemaError indicates a schema component that has no textual
// form in the requested output format under strict conversion.
type UnsupportedSchemaError struct {
	Format    string
	Component string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("schema component %s has no %s representation", e.Component, e.Format)
}

// ConflictingOverrideError indicates two overrides that cannot both be
// honoured, such as forcing a clean state while also setting a distance.
type ConflictingOverrideError struct {
	First  string
	Second string
}

func (e *ConflictingOverrideError) Error() string {
	return fmt.Sprintf("conflicting overrides: %s and %s", e.First, e.Second)
}

// UnresolvedTemplateVariableError indicates a template referencing a
// variable that holds no value in the current version state.
type UnresolvedTemplateVariableError struct {
	Name string
}

func (e *UnresolvedTemplateVariableError) Error() string {
	return fmt.Sprintf("template variable %q has no value", e.Name)
}

// ParseError indicates malformed version or schema input. Token and Pos
// identify the offending fragment where known; Err carries an underlying
// typed error when the fragment failed for a structural reason.
type ParseError struct {
	Input string
	Token string
	Pos   int
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parsing %q: %s at %q (offset %d)", e.Input, e.Msg, e.Token, e.Pos)
	}
	return fmt.Sprintf("parsing %q: %s", e.Input, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownPresetError indicates a schema preset name that is not registered.
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown schema preset %q", e.Name)
}

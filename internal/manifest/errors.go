package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned when the document is not valid JSON.
	ErrParse = errors.New("manifest is not valid JSON")

	// ErrSchema is returned when the JSON does not have the required shape.
	// Use errors.As with *SchemaError to find the offending field.
	ErrSchema = errors.New("manifest does not match the site.json schema")
)

// SchemaError describes the first field that failed validation.
type SchemaError struct {
	// Path is the gjson path of the offending field, e.g. "items.2.location".
	Path string

	// Reason is a short human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrSchema.Error(), e.Path, e.Reason)
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

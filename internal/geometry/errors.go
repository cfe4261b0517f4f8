package geometry

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// ValidationError reports input rejected before any area is computed.
// Validation errors never reach the log.
type ValidationError struct {
	// Figure is the requested figure name.
	Figure string

	// Field is the offending parameter, empty for figure-level errors.
	Field string

	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Figure, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Figure, e.Message)
}

// IsValidationError returns true if err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CatalogError reports an invalid figure catalog.
type CatalogError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CatalogError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

package render

import "fmt"

// RenderError represents a failure producing one document. The row index
// (1-based, counting data rows) lets batch processing report which records
// were skipped.
type RenderError struct {
	Row   int      // Data row index, 0 when not row-specific
	Kind  CardKind // Card kind being rendered
	Cause error    // Underlying error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("render error [kind=%s, row=%d]: %v", e.Kind, e.Row, e.Cause)
	}
	return fmt.Sprintf("render error [kind=%s]: %v", e.Kind, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError.
func NewRenderError(row int, kind CardKind, cause error) *RenderError {
	return &RenderError{
		Row:   row,
		Kind:  kind,
		Cause: cause,
	}
}

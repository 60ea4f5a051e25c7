package spreadsheet

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType is returned for uploads whose extension is not in the
// allow-list.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrTooLarge is returned for uploads exceeding the configured size limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// ErrNoRows is returned when a workbook parses cleanly but contains no data
// rows under the header.
var ErrNoRows = errors.New("spreadsheet has no data rows")

// ParseError represents a workbook that could not be read or decoded.
type ParseError struct {
	Filename string // Upload filename
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("spreadsheet parse error [file=%s]: %v", e.Filename, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new ParseError.
func NewParseError(filename string, cause error) *ParseError {
	return &ParseError{
		Filename: filename,
		Cause:    cause,
	}
}

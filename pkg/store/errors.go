package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an artifact does not exist, belongs to a
// different session, or has already been swept. Clients should treat it as
// "expired, re-upload".
var ErrNotFound = errors.New("artifact not found")

// ErrStoreFull is returned by Put when the content exceeds the configured
// per-artifact capacity.
var ErrStoreFull = errors.New("artifact exceeds store capacity")

// WriteError represents a failure writing an artifact or its metadata to the
// underlying storage. It is surfaced to clients as a retryable failure.
type WriteError struct {
	Path  string // File or database path involved
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("store write error [path=%s]: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// NewWriteError creates a new WriteError.
func NewWriteError(path string, cause error) *WriteError {
	return &WriteError{
		Path:  path,
		Cause: cause,
	}
}

// IndexError represents a failure in the metadata index backend.
type IndexError struct {
	Backend   string // Index backend type ("sqlite", "memory")
	Operation string // Operation that failed ("insert", "lookup", "remove", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *IndexError) Unwrap() error {
	return e.Cause
}

// NewIndexError creates a new IndexError.
func NewIndexError(backend, operation string, cause error) *IndexError {
	return &IndexError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

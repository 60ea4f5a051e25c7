package batch

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a job does not exist, belongs to a different
// session, or has been evicted.
var ErrNotFound = errors.New("batch job not found")

// ErrAlreadyTerminal is returned when an operation targets a job whose
// status is completed or failed. Terminal jobs never change.
var ErrAlreadyTerminal = errors.New("batch job already terminal")

// TransitionError represents a rejected job state change.
type TransitionError struct {
	JobID  string // Job involved
	From   Status // Current status
	Action string // Operation that was rejected ("start", "advance", ...)
	Reason string // Why it was rejected
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition [job=%s, status=%s, action=%s]: %s",
		e.JobID, e.From, e.Action, e.Reason)
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(jobID string, from Status, action, reason string) *TransitionError {
	return &TransitionError{
		JobID:  jobID,
		From:   from,
		Action: action,
		Reason: reason,
	}
}

package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrRunNotFound indicates no run record exists for the given identifier.
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidRunID indicates a run identifier that cannot name a record.
	ErrInvalidRunID = errors.New("invalid run id")

	// ErrStoreClosed indicates an operation on a store after Close.
	ErrStoreClosed = errors.New("store is closed")
)

// RunError wraps run-history errors with operation context.
type RunError struct {
	Op         string // Operation being performed (e.g., "SaveRun", "RunByID")
	RunID      string // Run ID if applicable
	WorkflowID string // Workflow ID if applicable
	Err        error  // Underlying error
}

func (e *RunError) Error() string {
	target := e.RunID
	if target == "" && e.WorkflowID != "" {
		target = fmt.Sprintf("workflow %s", e.WorkflowID)
	}

	return fmt.Sprintf("%s operation failed for run %s: %v", e.Op, target, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for run errors.
func (e *RunError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRunError creates a new run error with context.
func NewRunError(op, runID string, err error) *RunError {
	return &RunError{
		Op:    op,
		RunID: runID,
		Err:   err,
	}
}

// NewWorkflowRunError creates a run error for workflow-scoped operations.
func NewWorkflowRunError(op, workflowID string, err error) *RunError {
	return &RunError{
		Op:         op,
		WorkflowID: workflowID,
		Err:        err,
	}
}

// IsRunNotFound checks if an error indicates a run record was not found.
func IsRunNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}

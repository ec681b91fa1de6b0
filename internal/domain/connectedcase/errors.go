package connectedcase

import "errors"

var (
	// ErrTaskNotFound indicates no state exists for the task.
	ErrTaskNotFound = errors.New("task not found")
	// ErrCaseNotConnected indicates the task has no connected case.
	ErrCaseNotConnected = errors.New("no case connected to task")
	// ErrStandaloneTask indicates an operation that needs a live contact.
	ErrStandaloneTask = errors.New("operation not available for standalone task")
	// ErrNoForm indicates the task has no in-progress contact form.
	ErrNoForm = errors.New("task has no contact form")
	// ErrInvalidInput indicates invalid operation input.
	ErrInvalidInput = errors.New("invalid input")
)

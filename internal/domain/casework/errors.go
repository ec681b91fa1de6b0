package casework

import "errors"

var (
	// ErrInvalidTransition indicates a status not reachable from the persisted status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrCannotCancel indicates the case is not open or has already been updated.
	ErrCannotCancel = errors.New("case cannot be cancelled")
	// ErrDefinitionNotLoaded indicates the case's definition version is not available yet.
	ErrDefinitionNotLoaded = errors.New("definition version not loaded")
	// ErrInvalidInput indicates invalid case input.
	ErrInvalidInput = errors.New("invalid case input")
	// ErrUnknownSection indicates a section name that is not a case list.
	ErrUnknownSection = errors.New("unknown case section")
)

var (
	// ErrOperationInProgress indicates a remote request for the same task is still in flight.
	ErrOperationInProgress = errors.New("operation already in progress")
	// ErrBackend indicates a failed call to the HRM API.
	ErrBackend = errors.New("backend request failed")
)

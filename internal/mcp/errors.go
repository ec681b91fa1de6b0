package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/connectedcase"
	"github.com/rpggio/casedesk/internal/domain/contact"
)

// ErrMissingTask indicates a task-scoped method called without a task SID.
var ErrMissingTask = errors.New("task sid is required")

// APIError represents an RPC error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to stable RPC error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, casework.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: err.Error(), RecoveryHint: "Pick a status from the case's status options"}
	case errors.Is(err, activity.ErrActivityNotFound):
		return &APIError{Code: "ACTIVITY_NOT_FOUND", Message: err.Error(), RecoveryHint: "Reload the timeline and use a current stable index"}
	case errors.Is(err, casework.ErrOperationInProgress):
		return &APIError{Code: "IN_PROGRESS", Message: "a request for this task is already in flight", RecoveryHint: "Wait for the pending request to finish"}
	case errors.Is(err, casework.ErrBackend), errors.Is(err, contact.ErrSearchFailed):
		return &APIError{Code: "BACKEND_ERROR", Message: err.Error(), RecoveryHint: "Retry; the HRM service rejected or did not answer the request"}
	case errors.Is(err, connectedcase.ErrCaseNotConnected):
		return &APIError{Code: "CASE_NOT_CONNECTED", Message: "no case connected to task", RecoveryHint: "Call case.connect first"}
	case errors.Is(err, casework.ErrCannotCancel):
		return &APIError{Code: "CANNOT_CANCEL", Message: err.Error(), RecoveryHint: "Only new open cases can be cancelled"}
	case errors.Is(err, casework.ErrDefinitionNotLoaded):
		return &APIError{Code: "DEFINITION_NOT_LOADED", Message: err.Error(), RecoveryHint: "Retry after the definition version has loaded"}
	case errors.Is(err, connectedcase.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: err.Error(), RecoveryHint: "Call task.open first"}
	case errors.Is(err, connectedcase.ErrStandaloneTask), errors.Is(err, connectedcase.ErrNoForm):
		return &APIError{Code: "NOT_AVAILABLE", Message: err.Error()}
	case errors.Is(err, ErrMissingTask):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Pass task_sid or the X-Task-Sid header"}
	case errors.Is(err, connectedcase.ErrInvalidInput),
		errors.Is(err, casework.ErrInvalidInput),
		errors.Is(err, casework.ErrUnknownSection),
		errors.Is(err, caselist.ErrInvalidQuery),
		errors.Is(err, caselist.ErrInvalidRange),
		errors.Is(err, caselist.ErrUnknownDateOption),
		errors.Is(err, contact.ErrInvalidSearch):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

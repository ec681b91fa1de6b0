package telemetry

import "context"

// Repository persists backend errors.
type Repository interface {
	Append(ctx context.Context, e *BackendError) error
	Recent(ctx context.Context, limit int) ([]BackendError, error)
}

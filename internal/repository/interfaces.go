package repository

import (
	"context"

	"github.com/rpggio/casedesk/internal/telemetry"
)

// DefinitionRepository caches raw definition documents by version.
type DefinitionRepository interface {
	Get(ctx context.Context, version string) ([]byte, error)
	Put(ctx context.Context, version string, document []byte) error
}

// BackendErrorRepository stores failed HRM API calls.
type BackendErrorRepository interface {
	Append(ctx context.Context, e *telemetry.BackendError) error
	Recent(ctx context.Context, limit int) ([]telemetry.BackendError, error)
}

// APIKeyRepository resolves RPC bearer tokens to tenants.
type APIKeyRepository interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
	Create(ctx context.Context, tenantID, label string) (string, error)
}

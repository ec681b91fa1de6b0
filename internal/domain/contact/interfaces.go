package contact

import "context"

// SearchAPI searches contacts on the HRM API.
type SearchAPI interface {
	SearchContacts(ctx context.Context, params SearchParams, limit, offset int) (*SearchResult, error)
}

// Telemetry records failed backend calls.
type Telemetry interface {
	RecordBackendError(ctx context.Context, operation string, err error)
}

package definition

import "context"

// Repository caches raw definition documents by version.
type Repository interface {
	Get(ctx context.Context, version string) ([]byte, error)
	Put(ctx context.Context, version string, document []byte) error
}

package sqlite

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rpggio/casedesk/internal/repository"
)

var _ repository.APIKeyRepository = (*APIKeyRepository)(nil)

// APIKeyRepository stores hashed RPC API keys
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create issues a new key for a tenant and returns the plain token
func (r *APIKeyRepository) Create(ctx context.Context, tenantID, label string) (string, error) {
	if tenantID == "" {
		return "", repository.ErrInvalidInput
	}
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := r.Insert(ctx, token, tenantID, label); err != nil {
		return "", err
	}
	return token, nil
}

// Insert stores a known token for a tenant
func (r *APIKeyRepository) Insert(ctx context.Context, token, tenantID, label string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, tenant_id, description) VALUES (?, ?, ?)`,
		HashToken(token), tenantID, label,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: api key already exists", repository.ErrConflict)
		}
		return fmt.Errorf("failed to store api key: %w", err)
	}
	return nil
}

// ResolveTenant returns the tenant owning token
func (r *APIKeyRepository) ResolveTenant(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var tenantID string
	err := r.db.QueryRowContext(ctx, `SELECT tenant_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = CURRENT_TIMESTAMP WHERE key_hash = ?`, hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return tenantID, nil
}

// HashToken returns the stored form of a token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

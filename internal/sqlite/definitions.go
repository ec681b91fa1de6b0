package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/casedesk/internal/repository"
)

var _ repository.DefinitionRepository = (*DefinitionRepository)(nil)

// DefinitionRepository caches definition documents in SQLite
type DefinitionRepository struct {
	db *DB
}

// NewDefinitionRepository creates a new DefinitionRepository
func NewDefinitionRepository(db *DB) *DefinitionRepository {
	return &DefinitionRepository{db: db}
}

// Get returns the cached document of a version
func (r *DefinitionRepository) Get(ctx context.Context, version string) ([]byte, error) {
	var document []byte
	err := r.db.QueryRowContext(ctx, `SELECT document FROM definition_versions WHERE version = ?`, version).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get definition %s: %w", version, err)
	}
	return document, nil
}

// Put stores or replaces the document of a version
func (r *DefinitionRepository) Put(ctx context.Context, version string, document []byte) error {
	if version == "" || len(document) == 0 {
		return repository.ErrInvalidInput
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO definition_versions (version, document, loaded_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(version) DO UPDATE SET document = excluded.document, loaded_at = excluded.loaded_at
	`, version, document)
	if err != nil {
		return fmt.Errorf("failed to store definition %s: %w", version, err)
	}
	return nil
}

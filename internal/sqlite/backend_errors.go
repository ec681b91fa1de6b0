package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/casedesk/internal/repository"
	"github.com/rpggio/casedesk/internal/telemetry"
)

var _ repository.BackendErrorRepository = (*BackendErrorRepository)(nil)

// BackendErrorRepository implements repository.BackendErrorRepository for SQLite
type BackendErrorRepository struct {
	db *DB
}

// NewBackendErrorRepository creates a new BackendErrorRepository
func NewBackendErrorRepository(db *DB) *BackendErrorRepository {
	return &BackendErrorRepository{db: db}
}

// Append stores a backend error
func (r *BackendErrorRepository) Append(ctx context.Context, e *telemetry.BackendError) error {
	if e == nil || e.ID == "" {
		return repository.ErrInvalidInput
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backend_errors (id, operation, message, occurred_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Operation, e.Message, e.OccurredAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: backend error %s", repository.ErrConflict, e.ID)
		}
		return fmt.Errorf("failed to store backend error: %w", err)
	}
	return nil
}

// Recent lists the newest backend errors first
func (r *BackendErrorRepository) Recent(ctx context.Context, limit int) ([]telemetry.BackendError, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, operation, message, occurred_at FROM backend_errors ORDER BY occurred_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list backend errors: %w", err)
	}
	defer rows.Close()

	entries := []telemetry.BackendError{}
	for rows.Next() {
		var e telemetry.BackendError
		if err := rows.Scan(&e.ID, &e.Operation, &e.Message, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan backend error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backend error rows: %w", err)
	}
	return entries, nil
}

package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/casedesk/internal/repository"
	"github.com/rpggio/casedesk/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func TestBackendErrorRepository_AppendRecent(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewBackendErrorRepository(db)

	base := time.Date(2021, 6, 16, 15, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, &telemetry.BackendError{ID: "e1", Operation: "Update Case", Message: "HTTP 500", OccurredAt: base}))
	require.NoError(t, repo.Append(ctx, &telemetry.BackendError{ID: "e2", Operation: "Cancel Case", Message: "HTTP 502", OccurredAt: base.Add(time.Minute)}))

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "e2", entries[0].ID)
	require.Equal(t, "Update Case", entries[1].Operation)
	require.True(t, base.Equal(entries[1].OccurredAt))

	entries, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	err = repo.Append(ctx, &telemetry.BackendError{ID: "e1", Operation: "x", Message: "y", OccurredAt: base})
	require.ErrorIs(t, err, repository.ErrConflict)
	require.ErrorIs(t, repo.Append(ctx, &telemetry.BackendError{}), repository.ErrInvalidInput)
}

func TestDefinitionRepository_GetPut(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewDefinitionRepository(db)

	_, err := repo.Get(ctx, "v1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Put(ctx, "v1", []byte("caseStatus: {}")))
	require.NoError(t, repo.Put(ctx, "v1", []byte("caseStatus: {open: {}}")))

	doc, err := repo.Get(ctx, "v1")
	require.NoError(t, err)
	require.Equal(t, "caseStatus: {open: {}}", string(doc))

	require.ErrorIs(t, repo.Put(ctx, "", []byte("x")), repository.ErrInvalidInput)
}

func TestAPIKeyRepository(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAPIKeyRepository(db)

	token, err := repo.Create(ctx, "tenant1", "desk")
	require.NoError(t, err)
	require.Len(t, token, 48)

	tenantID, err := repo.ResolveTenant(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "tenant1", tenantID)

	var used int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys WHERE key_hash = ? AND last_used IS NOT NULL`, HashToken(token)).Scan(&used))
	require.Equal(t, 1, used)

	_, err = repo.ResolveTenant(ctx, "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Insert(ctx, "fixed", "tenant2", ""))
	require.ErrorIs(t, repo.Insert(ctx, "fixed", "tenant2", ""), repository.ErrConflict)
	_, err = repo.Create(ctx, "", "")
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

package sqlite

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully and are repeatable
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"backend_errors", "definition_versions", "api_keys"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	require.NoError(t, db.RunMigrations())
}

func TestBusyTimeout(t *testing.T) {
	db := NewTestDB(t)

	var timeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	require.Equal(t, busyTimeoutMillis, timeout)
}

func TestNew_FileUsesWAL(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "casedesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)
}

func TestIsUniqueViolation(t *testing.T) {
	db := NewTestDB(t)

	insert := `INSERT INTO definition_versions (version, document) VALUES ('v1', x'00')`
	_, err := db.Exec(insert)
	require.NoError(t, err)

	_, err = db.Exec(insert)
	require.Error(t, err)
	require.True(t, isUniqueViolation(err))
	require.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", err)))

	require.False(t, isUniqueViolation(nil))
	require.False(t, isUniqueViolation(errors.New("UNIQUE constraint failed")))
}

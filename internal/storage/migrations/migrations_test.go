package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const expectedMigrationCount = 2

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))

	version, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, expectedMigrationCount, version)

	tables := []string{"kv_store", "delegate_invocations", "_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %s not found", table)
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	version, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, expectedMigrationCount, version)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count))
	assert.Equal(t, expectedMigrationCount, count)
}

func TestPending(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, ensureMigrationsTable(db))

	pending, err := Pending(db)
	require.NoError(t, err)
	assert.Len(t, pending, expectedMigrationCount)

	require.NoError(t, Run(db))

	pending, err = Pending(db)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestVersion_EmptyDB(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, ensureMigrationsTable(db))

	version, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, 0, version)
}

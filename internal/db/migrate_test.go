package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesBlobTable(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='kv_blobs'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "kv_blobs", name)
}

func TestMigrate_RevisionColumnDefaults(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO kv_blobs (key, value, created_at, updated_at) VALUES ('k', x'7b7d', 'now', 'now')`)
	require.NoError(t, err)

	var rev int
	require.NoError(t, db.QueryRow(`SELECT revision FROM kv_blobs WHERE key = 'k'`).Scan(&rev))
	assert.Equal(t, 1, rev)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/kanban.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())
}

package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/kanban/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) (*db.SQLiteUnitOfWork, *sql.DB) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database), database
}

func insertBlob(ctx context.Context, tx db.DBTX, key string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv_blobs (key, value, created_at, updated_at) VALUES (?, ?, 'now', 'now')`,
		key, []byte(`{}`))
	return err
}

func hasBlob(t *testing.T, database *sql.DB, key string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM kv_blobs WHERE key = ?`, key).Scan(&n))
	return n > 0
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, database := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertBlob(ctx, tx, "a"); err != nil {
			return err
		}
		return insertBlob(ctx, tx, "b")
	})
	require.NoError(t, err)

	assert.True(t, hasBlob(t, database, "a"))
	assert.True(t, hasBlob(t, database, "b"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, database := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertBlob(ctx, tx, "a"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	assert.False(t, hasBlob(t, database, "a"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, database := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertBlob(ctx, tx, "a")
			panic("boom")
		})
	})

	assert.False(t, hasBlob(t, database, "a"), "row should not exist after panic rollback")
}

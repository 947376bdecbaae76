package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/kanban/internal/db"
)

// SQLiteBlobRepo implements BlobRepo on the kv_blobs table.
type SQLiteBlobRepo struct {
	db db.DBTX
}

var _ BlobRepo = (*SQLiteBlobRepo)(nil)

// NewSQLiteBlobRepo creates a new SQLiteBlobRepo.
func NewSQLiteBlobRepo(conn db.DBTX) *SQLiteBlobRepo {
	return &SQLiteBlobRepo{db: conn}
}

func (r *SQLiteBlobRepo) Get(ctx context.Context, key string) (*Blob, error) {
	query := `SELECT key, value, revision FROM kv_blobs WHERE key = ?`
	row := r.db.QueryRowContext(ctx, query, key)

	var b Blob
	if err := row.Scan(&b.Key, &b.Value, &b.Revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("blob %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning blob %q: %w", key, err)
	}
	return &b, nil
}

func (r *SQLiteBlobRepo) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	now := nowUTC()
	query := `INSERT INTO kv_blobs (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			revision = kv_blobs.revision + 1`
	if _, err := r.db.ExecContext(ctx, query, key, value, now, now); err != nil {
		return fmt.Errorf("writing blob %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteBlobRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting blob %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteBlobRepo) Has(ctx context.Context, key string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv_blobs WHERE key = ?`, key).Scan(&n); err != nil {
		return false, fmt.Errorf("checking blob %q: %w", key, err)
	}
	return n > 0, nil
}

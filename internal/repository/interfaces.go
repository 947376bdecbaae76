package repository

import "context"

// Blob is a raw key-value entry. Revision counts writes to the key.
type Blob struct {
	Key      string
	Value    []byte
	Revision int
}

// BlobRepo stores opaque byte blobs under string keys. Every Put replaces
// the whole value.
type BlobRepo interface {
	Get(ctx context.Context, key string) (*Blob, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
}

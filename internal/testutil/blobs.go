package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/kanban/internal/repository"
)

// CountingBlobRepo wraps a BlobRepo and counts writes. PutErr, when set,
// fails every Put without touching the inner repo.
type CountingBlobRepo struct {
	repository.BlobRepo

	mu     sync.Mutex
	puts   int
	PutErr error
}

var _ repository.BlobRepo = (*CountingBlobRepo)(nil)

// NewCountingBlobRepo wraps inner.
func NewCountingBlobRepo(inner repository.BlobRepo) *CountingBlobRepo {
	return &CountingBlobRepo{BlobRepo: inner}
}

func (r *CountingBlobRepo) Put(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	r.puts++
	failErr := r.PutErr
	r.mu.Unlock()
	if failErr != nil {
		return failErr
	}
	return r.BlobRepo.Put(ctx, key, value)
}

// Puts returns the number of Put calls so far.
func (r *CountingBlobRepo) Puts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.puts
}

// FailPuts makes subsequent Puts return err; nil restores normal writes.
func (r *CountingBlobRepo) FailPuts(err error) {
	r.mu.Lock()
	r.PutErr = err
	r.mu.Unlock()
}

// Package store persists the board as a single JSON blob.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/kanban/internal/db"
	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/alexanderramin/kanban/internal/logging"
	"github.com/alexanderramin/kanban/internal/repository"
	"github.com/rs/zerolog"
)

// DefaultKey names the board blob when no key is configured.
const DefaultKey = "kanban"

const (
	corruptSuffix = ":corrupt"
	backupSuffix  = ":backup"
)

// ErrNoBackup is returned by Restore when no Replace has left a backup.
var ErrNoBackup = errors.New("no backup")

// LoadReport summarizes one Load.
type LoadReport struct {
	Loaded int
	Repairs
	// FellBack is set when the blob could not be decoded and an empty
	// board was returned instead. Cause holds the decode error.
	FellBack bool
	Cause    error
}

// Store reads and writes the board blob.
type Store struct {
	blobs repository.BlobRepo
	uow   db.UnitOfWork
	key   string
	clock func() time.Time
	loc   *time.Location
	log   zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the blob key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock sets the time source used for load-time normalization.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLocation sets the zone deadlines are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithUnitOfWork enables transactional Replace.
func WithUnitOfWork(uow db.UnitOfWork) Option {
	return func(s *Store) { s.uow = uow }
}

// New creates a Store over blobs.
func New(blobs repository.BlobRepo, opts ...Option) *Store {
	s := &Store{
		blobs: blobs,
		key:   DefaultKey,
		clock: time.Now,
		loc:   time.Local,
		log:   logging.Component("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the blob key.
func (s *Store) Key() string { return s.key }

// CorruptKey is where an undecodable blob is copied before fallback.
func (s *Store) CorruptKey() string { return s.key + corruptSuffix }

// BackupKey holds the board that the last Replace overwrote.
func (s *Store) BackupKey() string { return s.key + backupSuffix }

func (s *Store) stamp() domain.Stamp {
	return domain.NewStamp(s.clock(), s.loc)
}

// Load reads the board. A missing blob yields an empty board. A blob that
// fails to decode is copied to CorruptKey and an empty board is returned;
// only read failures are reported as errors.
func (s *Store) Load(ctx context.Context) (*domain.Board, LoadReport, error) {
	var report LoadReport

	blob, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewBoard(), report, nil
	}
	if err != nil {
		return nil, report, fmt.Errorf("loading board: %w", err)
	}

	board, repairs, err := Decode(blob.Value, s.stamp())
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Str("copy", s.CorruptKey()).
			Msg("board blob unreadable, starting empty")
		if cerr := s.blobs.Put(ctx, s.CorruptKey(), blob.Value); cerr != nil {
			s.log.Error().Err(cerr).Str("key", s.CorruptKey()).Msg("saving corrupt copy")
		}
		report.FellBack = true
		report.Cause = err
		return domain.NewBoard(), report, nil
	}

	report.Loaded = board.Len()
	report.Repairs = repairs
	for _, key := range repairs.Dropped {
		s.log.Warn().Str("bucket", key).Msg("dropping unknown bucket")
	}
	if repairs.Repaired > 0 || repairs.Duplicates > 0 {
		s.log.Info().
			Int("repaired", repairs.Repaired).
			Int("duplicates", repairs.Duplicates).
			Msg("normalized board on load")
	}
	s.log.Debug().Int("tasks", report.Loaded).Int("revision", blob.Revision).Msg("board loaded")
	return board, report, nil
}

// Save overwrites the board blob.
func (s *Store) Save(ctx context.Context, b *domain.Board) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if err := s.blobs.Put(ctx, s.key, data); err != nil {
		return err
	}
	return nil
}

// Replace writes b after copying the current blob to BackupKey. With a
// unit of work both writes commit together.
func (s *Store) Replace(ctx context.Context, b *domain.Board) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}

	return s.withinTx(ctx, func(ctx context.Context, blobs repository.BlobRepo) error {
		return s.replaceWith(ctx, blobs, data)
	})
}

// withinTx runs fn against tx-scoped blobs, or against the plain repo when
// no unit of work is configured.
func (s *Store) withinTx(ctx context.Context, fn func(ctx context.Context, blobs repository.BlobRepo) error) error {
	if s.uow == nil {
		return fn(ctx, s.blobs)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, repository.NewSQLiteBlobRepo(tx))
	})
}

func (s *Store) replaceWith(ctx context.Context, blobs repository.BlobRepo, data []byte) error {
	cur, err := blobs.Get(ctx, s.key)
	switch {
	case err == nil:
		if err := blobs.Put(ctx, s.BackupKey(), cur.Value); err != nil {
			return fmt.Errorf("backing up board: %w", err)
		}
	case errors.Is(err, repository.ErrNotFound):
	default:
		return fmt.Errorf("reading current board: %w", err)
	}
	if err := blobs.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("writing board: %w", err)
	}
	s.log.Info().Str("key", s.key).Str("backup", s.BackupKey()).Msg("board replaced")
	return nil
}

// Restore makes the backup left by the last Replace current again and
// removes it. The board being replaced is not kept.
func (s *Store) Restore(ctx context.Context) (*domain.Board, Repairs, error) {
	var (
		board   *domain.Board
		repairs Repairs
	)
	err := s.withinTx(ctx, func(ctx context.Context, blobs repository.BlobRepo) error {
		ok, err := blobs.Has(ctx, s.BackupKey())
		if err != nil {
			return fmt.Errorf("checking backup: %w", err)
		}
		if !ok {
			return fmt.Errorf("%s: %w", s.BackupKey(), ErrNoBackup)
		}
		backup, err := blobs.Get(ctx, s.BackupKey())
		if err != nil {
			return fmt.Errorf("reading backup: %w", err)
		}
		board, repairs, err = Decode(backup.Value, s.stamp())
		if err != nil {
			return fmt.Errorf("reading backup: %w", err)
		}
		data, err := Encode(board)
		if err != nil {
			return err
		}
		if err := blobs.Put(ctx, s.key, data); err != nil {
			return fmt.Errorf("writing board: %w", err)
		}
		if err := blobs.Delete(ctx, s.BackupKey()); err != nil {
			return fmt.Errorf("removing backup: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, repairs, err
	}
	s.log.Info().Str("key", s.key).Int("tasks", board.Len()).Msg("board restored from backup")
	return board, repairs, nil
}

// DecodeBoard decodes data with the store's clock and zone. Unlike Load it
// reports decode failures.
func (s *Store) DecodeBoard(data []byte) (*domain.Board, Repairs, error) {
	return Decode(data, s.stamp())
}

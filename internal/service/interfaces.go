package service

import (
	"context"

	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/alexanderramin/kanban/internal/store"
)

// BoardStore persists a whole board.
type BoardStore interface {
	Load(ctx context.Context) (*domain.Board, store.LoadReport, error)
	Save(ctx context.Context, b *domain.Board) error
	Replace(ctx context.Context, b *domain.Board) error
	Restore(ctx context.Context) (*domain.Board, store.Repairs, error)
	DecodeBoard(data []byte) (*domain.Board, store.Repairs, error)
}

// CreateTaskInput carries raw form values for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	DeadlineRaw string
}

// EditTaskInput carries raw replacement values. Blank fields are kept.
type EditTaskInput struct {
	Title       string
	Description string
	DeadlineRaw string
}

// BoardService owns the board and serializes every operation on it.
// Returned tasks and boards are copies.
type BoardService interface {
	Reload(ctx context.Context) (store.LoadReport, error)
	Snapshot() *domain.Board
	Task(id string) (*domain.Task, error)

	CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	EditTask(ctx context.Context, id string, in EditTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) (*domain.Task, error)
	Advance(ctx context.Context, id string) (*domain.Task, error)
	ReturnTask(ctx context.Context, id, reason string) (*domain.Task, error)

	// Import replaces the board with a decoded blob, keeping a backup of
	// the current one.
	Import(ctx context.Context, data []byte) (store.Repairs, error)
	// RestoreBackup undoes the last Import.
	RestoreBackup(ctx context.Context) (*domain.Board, error)
}

package testutil

import (
	"time"

	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/google/uuid"
)

// TestNow is the fixed clock shared by service and CLI tests.
var TestNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// FixedClock returns a clock func pinned to t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// FutureDeadline and PastDeadline straddle TestNow.
const (
	FutureDeadline = "2025-06-20T18:30"
	PastDeadline   = "2025-06-01T09:00"
)

// TaskOption customizes a task fixture.
type TaskOption func(*domain.Task)

func WithID(id string) TaskOption {
	return func(t *domain.Task) { t.ID = id }
}

func WithStatus(s domain.Stage) TaskOption {
	return func(t *domain.Task) { t.Status = s }
}

func WithDeadline(raw string) TaskOption {
	return func(t *domain.Task) {
		t.DeadlineRaw = raw
		if d, err := domain.ParseDeadline(raw, time.UTC); err == nil {
			t.Deadline = domain.FormatDisplay(d, time.UTC)
		}
	}
}

func WithDescription(d string) TaskOption {
	return func(t *domain.Task) { t.Description = d }
}

func WithReturnReason(r string) TaskOption {
	return func(t *domain.Task) { t.ReturnReason = domain.StrPtr(r) }
}

func WithInDeadline(v bool) TaskOption {
	return func(t *domain.Task) { t.InDeadline = domain.BoolPtr(v) }
}

// NewTestTask builds a todo task with a future deadline stamped at TestNow.
func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	now := domain.FormatDisplay(TestNow, time.UTC)
	t := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    domain.StageTodo,
	}
	WithDeadline(FutureDeadline)(t)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestBoard places each task in the bucket named by its status. A done
// task without a verdict is given one so the board satisfies its invariants.
func NewTestBoard(tasks ...*domain.Task) *domain.Board {
	b := domain.NewBoard()
	for _, t := range tasks {
		if t.Status == domain.StageDone && t.InDeadline == nil {
			t.InDeadline = domain.BoolPtr(true)
		}
		switch t.Status {
		case domain.StageTodo:
			b.Todo = append(b.Todo, t)
		case domain.StageInProgress:
			b.InProgress = append(b.InProgress, t)
		case domain.StageTesting:
			b.Testing = append(b.Testing, t)
		case domain.StageDone:
			b.Done = append(b.Done, t)
		}
	}
	return b
}

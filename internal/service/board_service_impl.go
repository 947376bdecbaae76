package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/alexanderramin/kanban/internal/store"
	"github.com/google/uuid"
)

type boardService struct {
	mu       sync.Mutex
	board    *domain.Board
	store    BoardStore
	clock    func() time.Time
	loc      *time.Location
	newID    func() string
	observer UseCaseObserver
}

// BoardOption configures NewBoardService.
type BoardOption func(*boardService)

// WithClock sets the time source for timestamps and deadline checks.
func WithClock(clock func() time.Time) BoardOption {
	return func(s *boardService) { s.clock = clock }
}

// WithLocation sets the board time zone.
func WithLocation(loc *time.Location) BoardOption {
	return func(s *boardService) { s.loc = loc }
}

// WithIDGenerator replaces the UUID source for new tasks.
func WithIDGenerator(gen func() string) BoardOption {
	return func(s *boardService) { s.newID = gen }
}

// WithObservers sets the use-case observer; the first non-nil one wins.
func WithObservers(observers ...UseCaseObserver) BoardOption {
	return func(s *boardService) { s.observer = useCaseObserverOrNoop(observers) }
}

// NewBoardService returns a service holding an empty board. Call Reload to
// read the persisted one.
func NewBoardService(st BoardStore, opts ...BoardOption) BoardService {
	s := &boardService{
		board:    domain.NewBoard(),
		store:    st,
		clock:    time.Now,
		loc:      time.Local,
		newID:    func() string { return uuid.New().String() },
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *boardService) stamp() domain.Stamp {
	return domain.NewStamp(s.clock(), s.loc)
}

func (s *boardService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *boardService) Reload(ctx context.Context) (report store.LoadReport, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "reload", startedAt, fields, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	board, report, err := s.store.Load(ctx)
	if err != nil {
		return report, err
	}
	s.board = board
	fields["tasks"] = report.Loaded
	fields["fell_back"] = report.FellBack
	return report, nil
}

func (s *boardService) Snapshot() *domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

func (s *boardService) Task(id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.board.Find(id)
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrTaskNotFound)
	}
	return t.Clone(), nil
}

// mutate applies fn to a copy of the board, persists the copy and only then
// makes it current. Rejected or unsaved changes leave the board untouched.
func (s *boardService) mutate(
	ctx context.Context,
	name string,
	fields map[string]any,
	fn func(b *domain.Board, st domain.Stamp) (*domain.Task, error),
) (task *domain.Task, err error) {
	startedAt := time.Now()
	defer func() { s.observe(ctx, name, startedAt, fields, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.board.Clone()
	task, err = fn(next, s.stamp())
	if err != nil {
		return nil, err
	}
	if err = s.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("saving board: %w", err)
	}
	s.board = next
	fields["status"] = string(task.Status)
	return task.Clone(), nil
}

func (s *boardService) CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	fields := map[string]any{}
	return s.mutate(ctx, "create-task", fields,
		func(b *domain.Board, st domain.Stamp) (*domain.Task, error) {
			id := s.newID()
			fields["task"] = id
			t, err := domain.NewTask(id, in.Title, in.Description, in.DeadlineRaw, st)
			if err != nil {
				return nil, err
			}
			if err := b.Create(t); err != nil {
				return nil, err
			}
			return t, nil
		})
}

func (s *boardService) EditTask(ctx context.Context, id string, in EditTaskInput) (*domain.Task, error) {
	edit := domain.TaskEdit{Title: in.Title, Description: in.Description, DeadlineRaw: in.DeadlineRaw}
	return s.mutate(ctx, "edit-task", map[string]any{"task": id},
		func(b *domain.Board, st domain.Stamp) (*domain.Task, error) {
			return b.Edit(id, edit, st)
		})
}

func (s *boardService) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.mutate(ctx, "delete-task", map[string]any{"task": id},
		func(b *domain.Board, _ domain.Stamp) (*domain.Task, error) {
			return b.Delete(id)
		})
}

func (s *boardService) Advance(ctx context.Context, id string) (*domain.Task, error) {
	return s.mutate(ctx, "advance-task", map[string]any{"task": id},
		func(b *domain.Board, st domain.Stamp) (*domain.Task, error) {
			return b.Advance(id, st)
		})
}

func (s *boardService) ReturnTask(ctx context.Context, id, reason string) (*domain.Task, error) {
	return s.mutate(ctx, "return-task", map[string]any{"task": id},
		func(b *domain.Board, st domain.Stamp) (*domain.Task, error) {
			return b.Return(id, reason, st)
		})
}

func (s *boardService) Import(ctx context.Context, data []byte) (repairs store.Repairs, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "import-board", startedAt, fields, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	board, repairs, err := s.store.DecodeBoard(data)
	if err != nil {
		return repairs, fmt.Errorf("reading import: %w", err)
	}
	if err = s.store.Replace(ctx, board); err != nil {
		return repairs, fmt.Errorf("saving board: %w", err)
	}
	s.board = board
	fields["tasks"] = board.Len()
	fields["repaired"] = repairs.Repaired
	return repairs, nil
}

func (s *boardService) RestoreBackup(ctx context.Context) (board *domain.Board, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "restore-backup", startedAt, fields, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	board, _, err = s.store.Restore(ctx)
	if err != nil {
		return nil, err
	}
	s.board = board
	fields["tasks"] = board.Len()
	return board.Clone(), nil
}

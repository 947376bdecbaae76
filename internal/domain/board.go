package domain

import (
	"errors"
	"fmt"
)

// Board holds the four stage buckets. Each task lives in exactly one
// bucket, the one named by its Status.
type Board struct {
	Todo       []*Task
	InProgress []*Task
	Testing    []*Task
	Done       []*Task
}

// NewBoard returns a board with four empty buckets.
func NewBoard() *Board {
	return &Board{
		Todo:       []*Task{},
		InProgress: []*Task{},
		Testing:    []*Task{},
		Done:       []*Task{},
	}
}

func (b *Board) bucket(s Stage) *[]*Task {
	switch s {
	case StageTodo:
		return &b.Todo
	case StageInProgress:
		return &b.InProgress
	case StageTesting:
		return &b.Testing
	case StageDone:
		return &b.Done
	default:
		return nil
	}
}

// Tasks returns the bucket for s, or nil for an unknown stage.
func (b *Board) Tasks(s Stage) []*Task {
	if p := b.bucket(s); p != nil {
		return *p
	}
	return nil
}

// All returns every task in pipeline order.
func (b *Board) All() []*Task {
	all := make([]*Task, 0, b.Len())
	for _, s := range Pipeline {
		all = append(all, b.Tasks(s)...)
	}
	return all
}

// Len returns the number of tasks on the board.
func (b *Board) Len() int {
	return len(b.Todo) + len(b.InProgress) + len(b.Testing) + len(b.Done)
}

// Find returns the task with id and the stage bucket holding it.
func (b *Board) Find(id string) (*Task, Stage, bool) {
	for _, s := range Pipeline {
		for _, t := range b.Tasks(s) {
			if t.ID == id {
				return t, s, true
			}
		}
	}
	return nil, "", false
}

func (b *Board) get(id string) (*Task, Stage, error) {
	t, s, ok := b.Find(id)
	if !ok {
		return nil, "", fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
	}
	return t, s, nil
}

// Create appends a new task to the bucket of its stage. Only stages with
// create permission accept new tasks.
func (b *Board) Create(t *Task) error {
	if !t.Status.Allows(OpCreate) {
		return illegal(t, OpCreate)
	}
	if _, _, exists := b.Find(t.ID); exists {
		return fmt.Errorf("task %s already on board", t.ID)
	}
	p := b.bucket(t.Status)
	*p = append(*p, t)
	return nil
}

// Edit applies e to the task with id.
func (b *Board) Edit(id string, e TaskEdit, st Stamp) (*Task, error) {
	t, _, err := b.get(id)
	if err != nil {
		return nil, err
	}
	if err := t.ApplyEdit(e, st); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the task with id when its stage allows deletion.
func (b *Board) Delete(id string) (*Task, error) {
	t, s, err := b.get(id)
	if err != nil {
		return nil, err
	}
	if !s.Allows(OpDelete) {
		return nil, illegal(t, OpDelete)
	}
	b.remove(s, id)
	return t, nil
}

// Advance moves the task with id one stage forward.
func (b *Board) Advance(id string, st Stamp) (*Task, error) {
	t, from, err := b.get(id)
	if err != nil {
		return nil, err
	}
	if err := t.Advance(st); err != nil {
		return nil, err
	}
	b.relocate(t, from)
	return t, nil
}

// Return sends the task with id back from testing.
func (b *Board) Return(id, reason string, st Stamp) (*Task, error) {
	t, from, err := b.get(id)
	if err != nil {
		return nil, err
	}
	if err := t.Return(reason, st); err != nil {
		return nil, err
	}
	b.relocate(t, from)
	return t, nil
}

func (b *Board) relocate(t *Task, from Stage) {
	if from == t.Status {
		return
	}
	b.remove(from, t.ID)
	p := b.bucket(t.Status)
	*p = append(*p, t)
}

func (b *Board) remove(s Stage, id string) {
	p := b.bucket(s)
	kept := (*p)[:0]
	for _, t := range *p {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	// clear the tail so removed tasks are not retained
	for i := len(kept); i < len(*p); i++ {
		(*p)[i] = nil
	}
	*p = kept
}

// Normalize repairs every task for the current invariants and returns the
// number of tasks changed.
func (b *Board) Normalize(st Stamp) int {
	repaired := 0
	for _, t := range b.All() {
		if t.Normalize(st) {
			repaired++
		}
	}
	return repaired
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := NewBoard()
	for _, s := range Pipeline {
		src := b.Tasks(s)
		dst := c.bucket(s)
		*dst = make([]*Task, 0, len(src))
		for _, t := range src {
			*dst = append(*dst, t.Clone())
		}
	}
	return c
}

// CheckInvariants reports every task whose id is duplicated or whose
// status disagrees with its bucket.
func (b *Board) CheckInvariants() error {
	var errs []error
	seen := make(map[string]Stage, b.Len())
	for _, s := range Pipeline {
		for _, t := range b.Tasks(s) {
			if prev, dup := seen[t.ID]; dup {
				errs = append(errs, fmt.Errorf("task %s in both %s and %s", t.ID, prev, s))
				continue
			}
			seen[t.ID] = s
			if t.Status != s {
				errs = append(errs, fmt.Errorf("task %s has status %s but sits in %s", t.ID, t.Status, s))
			}
			if s == StageDone && t.InDeadline == nil {
				errs = append(errs, fmt.Errorf("done task %s has no deadline verdict", t.ID))
			}
		}
	}
	return errors.Join(errs...)
}

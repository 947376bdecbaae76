package domain

import (
	"strings"
	"time"
)

// Task is one work item on the board. Timestamps and the rendered deadline
// are kept in display form, exactly as persisted.
type Task struct {
	ID          string
	Title       string
	Description string
	CreatedAt   string
	UpdatedAt   string
	DeadlineRaw string
	Deadline    string
	Status      Stage

	// ReturnReason is set when the task is sent back from testing.
	ReturnReason *string

	// InDeadline is nil until the task reaches done.
	InDeadline *bool
}

// Stamp is the wall clock a mutation is applied at.
type Stamp struct {
	Now time.Time
	Loc *time.Location
}

// NewStamp returns a Stamp for now in loc.
func NewStamp(now time.Time, loc *time.Location) Stamp {
	if loc == nil {
		loc = time.Local
	}
	return Stamp{Now: now, Loc: loc}
}

// Display renders the stamp with DisplayLayout.
func (s Stamp) Display() string {
	return FormatDisplay(s.Now, s.Loc)
}

// TaskEdit carries raw replacement values. Blank fields are left unchanged.
type TaskEdit struct {
	Title       string
	Description string
	DeadlineRaw string
}

// NewTask validates raw input and builds a task in the initial stage.
func NewTask(id, title, description, deadlineRaw string, st Stamp) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "title", Message: "is required"}
	}
	deadlineRaw = strings.TrimSpace(deadlineRaw)
	if deadlineRaw == "" {
		return nil, &ValidationError{Field: "deadline", Message: "is required"}
	}
	deadline, err := ParseDeadline(deadlineRaw, st.Loc)
	if err != nil {
		return nil, &ValidationError{Field: "deadline", Message: err.Error()}
	}

	now := st.Display()
	return &Task{
		ID:          id,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		DeadlineRaw: deadlineRaw,
		Deadline:    FormatDisplay(deadline, st.Loc),
		Status:      StageTodo,
	}, nil
}

// ApplyEdit applies the non-blank fields of e. A deadline that does not
// parse is ignored. UpdatedAt is stamped even when nothing else changed.
func (t *Task) ApplyEdit(e TaskEdit, st Stamp) error {
	if !t.Status.Allows(OpEdit) {
		return illegal(t, OpEdit)
	}
	if strings.TrimSpace(e.Title) != "" {
		t.Title = e.Title
	}
	if strings.TrimSpace(e.Description) != "" {
		t.Description = e.Description
	}
	if raw := strings.TrimSpace(e.DeadlineRaw); raw != "" {
		if deadline, err := ParseDeadline(raw, st.Loc); err == nil {
			t.DeadlineRaw = raw
			t.Deadline = FormatDisplay(deadline, st.Loc)
		}
	}
	t.UpdatedAt = st.Display()
	return nil
}

// Advance moves the task one stage forward. Reaching done settles
// InDeadline and clears ReturnReason; any other destination resets
// InDeadline to unknown.
func (t *Task) Advance(st Stamp) error {
	next, ok := t.Status.Next()
	if !ok || !t.Status.Allows(OpAdvance) || !t.Status.ValidTransition(next) {
		return illegal(t, OpAdvance)
	}
	t.Status = next
	if next == StageDone {
		t.EvaluateDeadline(st)
		t.ReturnReason = nil
	} else {
		t.InDeadline = nil
	}
	t.UpdatedAt = st.Display()
	return nil
}

// Return sends the task back from testing with a reason.
func (t *Task) Return(reason string, st Stamp) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return &ValidationError{Field: "reason", Message: "is required"}
	}
	target, ok := t.Status.ReturnTarget()
	if !ok || !t.Status.Allows(OpReturn) || !t.Status.ValidTransition(target) {
		return illegal(t, OpReturn)
	}
	t.Status = target
	t.ReturnReason = &reason
	t.InDeadline = nil
	t.UpdatedAt = st.Display()
	return nil
}

// EvaluateDeadline sets InDeadline from DeadlineRaw against st.Now.
func (t *Task) EvaluateDeadline(st Stamp) {
	met := MetDeadline(t.DeadlineRaw, st.Now, st.Loc)
	t.InDeadline = &met
}

// Normalize repairs a task loaded from older data. A done task without a
// verdict gets one derived at st; other tasks keep theirs. Reports whether
// anything changed.
func (t *Task) Normalize(st Stamp) bool {
	if t.InDeadline != nil || t.Status != StageDone {
		return false
	}
	t.EvaluateDeadline(st)
	return true
}

// ReturnReasonText returns the return reason or "".
func (t *Task) ReturnReasonText() string {
	if t.ReturnReason == nil {
		return ""
	}
	return *t.ReturnReason
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.ReturnReason != nil {
		r := *t.ReturnReason
		c.ReturnReason = &r
	}
	if t.InDeadline != nil {
		v := *t.InDeadline
		c.InDeadline = &v
	}
	return &c
}

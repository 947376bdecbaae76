package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/alexanderramin/kanban/internal/domain"
)

// taskRecord is the persisted shape of a task.
type taskRecord struct {
	ID           recordID        `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	CreatedAt    string          `json:"createdAt"`
	UpdatedAt    string          `json:"updatedAt"`
	DeadlineRaw  string          `json:"deadlineRaw"`
	Deadline     string          `json:"deadline"`
	Status       string          `json:"status"`
	ReturnReason *string         `json:"returnReason"`
	InDeadline   json.RawMessage `json:"inDeadline"`
}

type boardRecord struct {
	Todo       []taskRecord `json:"todo"`
	InProgress []taskRecord `json:"inProgress"`
	Testing    []taskRecord `json:"testing"`
	Done       []taskRecord `json:"done"`
}

// recordID accepts both string ids and the numeric ids written by older
// boards. It always encodes as a string.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = recordID(n.String())
	return nil
}

func recordFromTask(t *domain.Task) taskRecord {
	rec := taskRecord{
		ID:           recordID(t.ID),
		Title:        t.Title,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		DeadlineRaw:  t.DeadlineRaw,
		Deadline:     t.Deadline,
		Status:       string(t.Status),
		ReturnReason: t.ReturnReason,
		InDeadline:   json.RawMessage("null"),
	}
	if t.InDeadline != nil {
		if *t.InDeadline {
			rec.InDeadline = json.RawMessage("true")
		} else {
			rec.InDeadline = json.RawMessage("false")
		}
	}
	return rec
}

func (r taskRecord) toTask() *domain.Task {
	t := &domain.Task{
		ID:           string(r.ID),
		Title:        r.Title,
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		DeadlineRaw:  r.DeadlineRaw,
		Deadline:     r.Deadline,
		Status:       domain.Stage(r.Status),
		ReturnReason: r.ReturnReason,
	}
	// anything but a JSON boolean counts as unknown
	switch string(bytes.TrimSpace(r.InDeadline)) {
	case "true":
		t.InDeadline = domain.BoolPtr(true)
	case "false":
		t.InDeadline = domain.BoolPtr(false)
	}
	return t
}

// Encode serializes b in the persisted layout. Empty buckets encode as [].
func Encode(b *domain.Board) ([]byte, error) {
	rec := boardRecord{
		Todo:       encodeBucket(b.Todo),
		InProgress: encodeBucket(b.InProgress),
		Testing:    encodeBucket(b.Testing),
		Done:       encodeBucket(b.Done),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}
	return data, nil
}

func encodeBucket(tasks []*domain.Task) []taskRecord {
	out := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, recordFromTask(t))
	}
	return out
}

// Repairs lists what decoding had to change to produce a valid board.
type Repairs struct {
	// Repaired counts tasks whose status or deadline verdict was rewritten.
	Repaired int
	// Duplicates counts tasks dropped because their id was already seen.
	Duplicates int
	// Dropped holds unknown top-level keys, sorted.
	Dropped []string
}

// Changed reports whether the decoded board differs from the input.
func (r Repairs) Changed() bool {
	return r.Repaired > 0 || r.Duplicates > 0 || len(r.Dropped) > 0
}

// Decode parses a persisted blob, validates it against the board schema and
// normalizes every task at st.
func Decode(data []byte, st domain.Stamp) (*domain.Board, Repairs, error) {
	var rep Repairs

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, rep, fmt.Errorf("decoding board: %w", err)
	}
	if err := validateShape(doc); err != nil {
		return nil, rep, err
	}

	var buckets map[string]json.RawMessage
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, rep, fmt.Errorf("decoding board: %w", err)
	}

	b := domain.NewBoard()
	seen := make(map[string]bool)
	for _, stage := range domain.Pipeline {
		raw, ok := buckets[string(stage)]
		delete(buckets, string(stage))
		if !ok {
			continue
		}
		var records []taskRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, rep, fmt.Errorf("decoding %s: %w", stage, err)
		}
		for _, rec := range records {
			t := rec.toTask()
			if seen[t.ID] {
				rep.Duplicates++
				continue
			}
			seen[t.ID] = true
			if normalizeInto(t, stage, st) {
				rep.Repaired++
			}
			appendTo(b, stage, t)
		}
	}

	for key := range buckets {
		rep.Dropped = append(rep.Dropped, key)
	}
	sort.Strings(rep.Dropped)

	return b, rep, nil
}

// normalizeInto makes t agree with the bucket it was read from.
func normalizeInto(t *domain.Task, stage domain.Stage, st domain.Stamp) bool {
	changed := false
	if t.Status != stage {
		t.Status = stage
		if stage != domain.StageDone {
			t.InDeadline = nil
		}
		changed = true
	}
	if t.Normalize(st) {
		changed = true
	}
	return changed
}

func appendTo(b *domain.Board, stage domain.Stage, t *domain.Task) {
	switch stage {
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

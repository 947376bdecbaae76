package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/stretchr/testify/assert"
)

var fmtNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func sampleBoard() *domain.Board {
	b := domain.NewBoard()
	b.Todo = append(b.Todo, &domain.Task{
		ID: "aaaaaaaa-1111", Title: "Write report", Status: domain.StageTodo,
		DeadlineRaw: "2025-06-16T09:00", Deadline: "16.06.2025, 09:00:00",
	})
	b.InProgress = append(b.InProgress, &domain.Task{
		ID: "bbbbbbbb-2222", Title: "Fix login", Status: domain.StageInProgress,
		DeadlineRaw: "2025-07-30T09:00", Deadline: "30.07.2025, 09:00:00",
		ReturnReason: domain.StrPtr("crashes on empty password"),
	})
	b.Done = append(b.Done, &domain.Task{
		ID: "cccccccc-3333", Title: "Ship v1", Status: domain.StageDone,
		Deadline: "01.06.2025, 09:00:00", InDeadline: domain.BoolPtr(false),
	})
	return b
}

func TestFormatBoard_Columns(t *testing.T) {
	out := stripANSI(FormatBoard(sampleBoard(), BoardOptions{Width: 120, Now: fmtNow, Loc: time.UTC}))

	for _, want := range []string{"TO DO (1)", "IN PROGRESS (1)", "TESTING (0)", "DONE (1)",
		"Write report", "Fix login", "Ship v1", "↩ crashes", "✖ late", "Tomorrow", "aaaaaaaa"} {
		assert.Contains(t, out, want)
	}
	// all four headers share the first line
	first := strings.SplitN(out, "\n", 2)[0]
	assert.Contains(t, first, "TO DO")
	assert.Contains(t, first, "DONE")
}

func TestFormatBoard_SelectedMarker(t *testing.T) {
	out := stripANSI(FormatBoard(sampleBoard(), BoardOptions{Width: 120, Selected: "bbbbbbbb-2222"}))
	assert.Contains(t, out, "▸ Fix login")
	assert.NotContains(t, out, "▸ Write report")
}

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, 23, ColumnWidth(98))
	assert.Equal(t, minColumnWidth, ColumnWidth(40))
	assert.Equal(t, ColumnWidth(100), ColumnWidth(0))
}

func TestFormatTaskList(t *testing.T) {
	out := stripANSI(FormatTaskList(sampleBoard()))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[2], "To Do")
	assert.Contains(t, lines[3], "↩ crashes on empty password")
	assert.Contains(t, lines[4], "✖ late")

	assert.Contains(t, stripANSI(FormatTaskList(domain.NewBoard())), "No tasks")
}

func TestFormatTask(t *testing.T) {
	task := sampleBoard().InProgress[0]
	task.CreatedAt = "15.06.2025, 10:00:00"
	out := stripANSI(FormatTask(task))

	assert.Contains(t, out, "FIX LOGIN")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "crashes on empty password")
	assert.Contains(t, out, "15.06.2025, 10:00:00")
	assert.NotContains(t, out, "Verdict")
}

func TestFormatActions(t *testing.T) {
	assert.Equal(t, "actions: edit, advance, rm", stripANSI(FormatActions(domain.StageTodo)))
	assert.Equal(t, "actions: edit, advance, return", stripANSI(FormatActions(domain.StageTesting)))
	assert.Equal(t, "actions: rm", stripANSI(FormatActions(domain.StageDone)))
}

func TestVerdictBadge(t *testing.T) {
	assert.Empty(t, VerdictBadge(nil))
	assert.Contains(t, stripANSI(VerdictBadge(domain.BoolPtr(true))), "on time")
}

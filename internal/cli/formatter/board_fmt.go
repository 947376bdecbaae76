package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	minColumnWidth = 18
	columnGap      = 2
)

// BoardOptions controls board rendering.
type BoardOptions struct {
	// Width is the total width available; 0 means 100.
	Width int
	Now   time.Time
	Loc   *time.Location
	// Selected highlights one task id.
	Selected string
}

// ColumnWidth splits width into four columns.
func ColumnWidth(width int) int {
	if width <= 0 {
		width = 100
	}
	w := (width - 3*columnGap) / len(domain.Pipeline)
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

// FormatBoard renders the four stage columns side by side.
func FormatBoard(b *domain.Board, opts BoardOptions) string {
	width := ColumnWidth(opts.Width)
	cols := make([]string, 0, len(domain.Pipeline))
	for i, s := range domain.Pipeline {
		col := FormatColumn(s, b.Tasks(s), width, opts)
		if i < len(domain.Pipeline)-1 {
			col = lipgloss.NewStyle().MarginRight(columnGap).Render(col)
		}
		cols = append(cols, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// FormatColumn renders one stage column of fixed width.
func FormatColumn(s domain.Stage, tasks []*domain.Task, width int, opts BoardOptions) string {
	head := lipgloss.NewStyle().Foreground(StageColor(s)).Bold(true).
		Render(fmt.Sprintf("%s (%d)", strings.ToUpper(StageLabel(s)), len(tasks)))

	lines := []string{head, StyleDim.Render(strings.Repeat("─", width))}
	if len(tasks) == 0 {
		lines = append(lines, Dim("—"))
	}
	for _, t := range tasks {
		lines = append(lines, formatCard(t, width, opts))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func formatCard(t *domain.Task, width int, opts BoardOptions) string {
	marker := "  "
	titleStyle := StyleBold
	if opts.Selected != "" && t.ID == opts.Selected {
		marker = StyleHeader.Render("▸ ")
		titleStyle = StyleHeader
	}

	lines := []string{
		marker + titleStyle.Render(Truncate(t.Title, width-2)),
		"  " + TruncID(t.ID) + " " + deadlineNote(t, opts),
	}
	if reason := t.ReturnReasonText(); reason != "" {
		lines = append(lines, "  "+StyleYellow.Render(Truncate("↩ "+reason, width-2)))
	}
	return strings.Join(lines, "\n")
}

func deadlineNote(t *domain.Task, opts BoardOptions) string {
	if t.Status == domain.StageDone {
		return VerdictBadge(t.InDeadline)
	}
	if opts.Now.IsZero() {
		return Dim(t.Deadline)
	}
	d, err := domain.ParseDeadline(t.DeadlineRaw, opts.Loc)
	if err != nil {
		return StyleRed.Render("no deadline")
	}
	return DeadlineHint(d, opts.Now)
}

// FormatTaskList renders every task as one table row in pipeline order.
func FormatTaskList(b *domain.Board) string {
	if b.Len() == 0 {
		return Dim("No tasks. Add one with: kanban add") + "\n"
	}
	rows := make([][]string, 0, b.Len())
	for _, t := range b.All() {
		note := VerdictBadge(t.InDeadline)
		if reason := t.ReturnReasonText(); reason != "" {
			note = StyleYellow.Render("↩ " + reason)
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			StagePill(t.Status),
			t.Title,
			t.Deadline,
			note,
		})
	}
	return RenderTable([]string{"ID", "STAGE", "TITLE", "DEADLINE", "NOTE"}, rows)
}

// FormatTask renders a task detail box.
func FormatTask(t *domain.Task) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-10s", label)), value)
	}

	field("ID", t.ID)
	field("Stage", StagePill(t.Status))
	if t.Description != "" {
		field("Notes", t.Description)
	}
	field("Deadline", t.Deadline)
	if badge := VerdictBadge(t.InDeadline); badge != "" {
		field("Verdict", badge)
	}
	if reason := t.ReturnReasonText(); reason != "" {
		field("Returned", StyleYellow.Render(reason))
	}
	field("Created", t.CreatedAt)
	field("Updated", t.UpdatedAt)

	return RenderBox(t.Title, strings.TrimRight(b.String(), "\n"))
}

// FormatActions lists the operations the task's stage permits.
func FormatActions(s domain.Stage) string {
	var names []string
	p := s.Permissions()
	if p.Edit {
		names = append(names, "edit")
	}
	if p.Advance {
		names = append(names, "advance")
	}
	if p.Return {
		names = append(names, "return")
	}
	if p.Delete {
		names = append(names, "rm")
	}
	if len(names) == 0 {
		return Dim("no actions")
	}
	return Dim("actions: " + strings.Join(names, ", "))
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kanban/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 45%, colored red below a
// third and yellow below two thirds.
func RenderProgress(pct float64, width int) string {
	pct = max(0, min(pct, 1))
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 0.33:
		style = StyleRed
	case pct < 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// BoardSummary counts what the board holds.
type BoardSummary struct {
	Total int
	Done  int
	Late  int
	Open  int
}

// Summarize tallies b. Late counts done tasks that missed their deadline.
func Summarize(b *domain.Board) BoardSummary {
	var s BoardSummary
	for _, t := range b.All() {
		s.Total++
		if t.Status != domain.StageDone {
			s.Open++
			continue
		}
		s.Done++
		if t.InDeadline != nil && !*t.InDeadline {
			s.Late++
		}
	}
	return s
}

// FormatSummary renders a one-line completion bar for b.
func FormatSummary(b *domain.Board) string {
	s := Summarize(b)
	if s.Total == 0 {
		return Dim("empty board")
	}
	line := fmt.Sprintf("%s  %d/%d done", RenderProgress(float64(s.Done)/float64(s.Total), 20), s.Done, s.Total)
	if s.Late > 0 {
		line += " · " + StyleRed.Render(fmt.Sprintf("%d late", s.Late))
	}
	return line
}

package formatter

import (
	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StageColor returns the accent color of a stage.
func StageColor(s domain.Stage) lipgloss.Color {
	switch s {
	case domain.StageTodo:
		return ColorBlue
	case domain.StageInProgress:
		return ColorYellow
	case domain.StageTesting:
		return ColorPurple
	case domain.StageDone:
		return ColorGreen
	default:
		return ColorDim
	}
}

// StageLabel returns the column title for a stage.
func StageLabel(s domain.Stage) string {
	switch s {
	case domain.StageTodo:
		return "To Do"
	case domain.StageInProgress:
		return "In Progress"
	case domain.StageTesting:
		return "Testing"
	case domain.StageDone:
		return "Done"
	default:
		return string(s)
	}
}

// StagePill returns a colored stage indicator such as "● Testing".
func StagePill(s domain.Stage) string {
	icon := "●"
	switch s {
	case domain.StageTodo:
		icon = "○"
	case domain.StageDone:
		icon = "✔"
	}
	return lipgloss.NewStyle().Foreground(StageColor(s)).Render(icon + " " + StageLabel(s))
}

// VerdictBadge renders a done task's deadline verdict. Unknown renders as "".
func VerdictBadge(inDeadline *bool) string {
	if inDeadline == nil {
		return ""
	}
	if *inDeadline {
		return StyleGreen.Render("✔ on time")
	}
	return StyleRed.Render("✖ late")
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

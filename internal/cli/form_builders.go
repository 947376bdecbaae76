package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/charmbracelet/huh"
)

const deadlinePlaceholder = "2025-06-30T18:00"

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// validateDeadline accepts anything ParseDeadline does.
func validateDeadline(loc *time.Location) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("deadline is required")
		}
		_, err := domain.ParseDeadline(s, loc)
		return err
	}
}

// validateOptionalDeadline allows blank, meaning "keep the current value".
func validateOptionalDeadline(loc *time.Location) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		_, err := domain.ParseDeadline(s, loc)
		return err
	}
}

// taskForm collects title, description and deadline. With required set,
// title and deadline must be filled in.
func taskForm(title, description, deadline *string, loc *time.Location, required bool) *huh.Form {
	titleInput := huh.NewInput().Title("Title").Value(title)
	deadlineInput := huh.NewInput().
		Title("Deadline").
		Description("YYYY-MM-DDTHH:mm").
		Placeholder(deadlinePlaceholder).
		Value(deadline)
	if required {
		titleInput = titleInput.Validate(validateRequired("title"))
		deadlineInput = deadlineInput.Validate(validateDeadline(loc))
	} else {
		deadlineInput = deadlineInput.Validate(validateOptionalDeadline(loc))
	}

	return huh.NewForm(
		huh.NewGroup(
			titleInput,
			huh.NewText().Title("Description").Value(description),
			deadlineInput,
		),
	).WithTheme(kanbanHuhTheme()).WithShowHelp(false)
}

// reasonForm asks why a task is going back to in progress.
func reasonForm(reason *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Why is it going back?").
				Value(reason).
				Validate(validateRequired("reason")),
		),
	).WithTheme(kanbanHuhTheme()).WithShowHelp(false)
}

// confirmForm asks a yes/no question.
func confirmForm(title string, ok *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Affirmative("Delete").Negative("Keep").Value(ok),
		),
	).WithTheme(kanbanHuhTheme()).WithShowHelp(false)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kanban/internal/domain"
)

// resolveTaskID maps an exact id or a unique id prefix to a task id.
func resolveTaskID(app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}

	tasks := app.Board.Snapshot().All()
	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
	}

	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task %q: %w", input, domain.ErrTaskNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

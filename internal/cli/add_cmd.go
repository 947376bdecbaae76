package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kanban/internal/cli/formatter"
	"github.com/alexanderramin/kanban/internal/service"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var title, description, deadline string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task to To Do",
		Example: `  kanban add "Write report" --deadline 2025-06-30T18:00
  kanban add            # prompts for the fields`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && title == "" {
				title = args[0]
			}

			missing := strings.TrimSpace(title) == "" || strings.TrimSpace(deadline) == ""
			if missing && app.interactive() {
				if err := taskForm(&title, &description, &deadline, app.location(), true).Run(); err != nil {
					return err
				}
			}

			task, err := app.Board.CreateTask(cmd.Context(), service.CreateTaskInput{
				Title:       title,
				Description: description,
				DeadlineRaw: deadline,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s\n",
				formatter.TruncID(task.ID), formatter.Bold(task.Title), formatter.Dim("due "+task.Deadline))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Task title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DDTHH:mm)")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/alexanderramin/kanban/internal/cli/formatter"
	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/alexanderramin/kanban/internal/service"
	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	var title, description, deadline string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title, description or deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(app, args[0])
			if err != nil {
				return err
			}

			if title == "" && description == "" && deadline == "" {
				if !app.interactive() {
					return fmt.Errorf("nothing to edit: pass --title, --description or --deadline")
				}
				current, err := app.Board.Task(id)
				if err != nil {
					return err
				}
				if !current.Status.Allows(domain.OpEdit) {
					return &domain.IllegalTransitionError{TaskID: id, From: current.Status, Op: domain.OpEdit}
				}
				title, description, deadline = current.Title, current.Description, current.DeadlineRaw
				if err := taskForm(&title, &description, &deadline, app.location(), false).Run(); err != nil {
					return err
				}
			}

			// the core ignores an unparsable deadline; tell the user instead
			if err := validateOptionalDeadline(app.location())(deadline); err != nil {
				return &domain.ValidationError{Field: "deadline", Message: err.Error()}
			}

			task, err := app.Board.EditTask(cmd.Context(), id, service.EditTaskInput{
				Title:       title,
				Description: description,
				DeadlineRaw: deadline,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", formatter.TruncID(task.ID), formatter.Bold(task.Title))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&deadline, "deadline", "", "New deadline (YYYY-MM-DDTHH:mm)")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/alexanderramin/kanban/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task from To Do or Done",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(app, args[0])
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				task, err := app.Board.Task(id)
				if err != nil {
					return err
				}
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %q?", task.Title), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
					return nil
				}
			}

			task, err := app.Board.DeleteTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", formatter.TruncID(task.ID), task.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/alexanderramin/kanban/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(app, args[0])
			if err != nil {
				return err
			}
			task, err := app.Board.Task(id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatTask(task))
			fmt.Fprintln(out, formatter.FormatActions(task.Status))
			return nil
		},
	}
}

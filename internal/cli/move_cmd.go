package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kanban/internal/cli/formatter"
	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/spf13/cobra"
)

func newAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "advance <id>",
		Aliases: []string{"next"},
		Short:   "Move a task one stage forward",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(app, args[0])
			if err != nil {
				return err
			}
			task, err := app.Board.Advance(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), movedLine(task))
			return nil
		},
	}
}

func newReturnCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "return <id> [reason...]",
		Short: "Send a task from Testing back to In Progress",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(app, args[0])
			if err != nil {
				return err
			}
			if reason == "" && len(args) > 1 {
				reason = strings.Join(args[1:], " ")
			}
			if strings.TrimSpace(reason) == "" && app.interactive() {
				current, err := app.Board.Task(id)
				if err != nil {
					return err
				}
				// no point asking for a reason the board will refuse
				if !current.Status.Allows(domain.OpReturn) {
					return &domain.IllegalTransitionError{TaskID: id, From: current.Status, Op: domain.OpReturn}
				}
				if err := reasonForm(&reason).Run(); err != nil {
					return err
				}
			}

			task, err := app.Board.ReturnTask(cmd.Context(), id, reason)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), movedLine(task))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why the task goes back")

	return cmd
}

func movedLine(t *domain.Task) string {
	line := fmt.Sprintf("%s %s → %s", formatter.TruncID(t.ID), formatter.Bold(t.Title), formatter.StagePill(t.Status))
	if badge := formatter.VerdictBadge(t.InDeadline); badge != "" {
		line += " " + badge
	}
	if reason := t.ReturnReasonText(); reason != "" && t.Status == domain.StageInProgress {
		line += " " + formatter.Dim("("+reason+")")
	}
	return line
}

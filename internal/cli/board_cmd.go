package cli

import (
	"fmt"

	"github.com/alexanderramin/kanban/internal/cli/formatter"
	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type boardFlags struct {
	list  bool
	width int
	stage stageValue
}

// stageValue is a flag holding one pipeline stage.
type stageValue struct {
	stage domain.Stage
}

var _ pflag.Value = (*stageValue)(nil)

func (v *stageValue) String() string { return string(v.stage) }

func (v *stageValue) Set(raw string) error {
	s, ok := domain.ParseStage(raw)
	if !ok {
		return fmt.Errorf("unknown stage %q (use todo, inProgress, testing or done)", raw)
	}
	v.stage = s
	return nil
}

func (v *stageValue) Type() string { return "stage" }

func newBoardCmd(app *App) *cobra.Command {
	var flags boardFlags

	cmd := &cobra.Command{
		Use:     "board",
		Aliases: []string{"ls"},
		Short:   "Show the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, app, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "One row per task instead of columns")
	cmd.Flags().IntVarP(&flags.width, "width", "w", 0, "Board width in columns (default 100)")
	cmd.Flags().VarP(&flags.stage, "stage", "s", "Only show one stage (todo, inProgress, testing, done)")

	return cmd
}

func runBoard(cmd *cobra.Command, app *App, flags boardFlags) error {
	board := app.Board.Snapshot()
	out := cmd.OutOrStdout()

	if stage := flags.stage.stage; stage != "" {
		only := domain.NewBoard()
		for _, t := range board.Tasks(stage) {
			if err := appendTask(only, t); err != nil {
				return err
			}
		}
		board = only
	}

	if flags.list {
		fmt.Fprint(out, formatter.FormatTaskList(board))
		return nil
	}

	fmt.Fprintln(out, formatter.FormatBoard(board, formatter.BoardOptions{
		Width: flags.width,
		Now:   app.now(),
		Loc:   app.location(),
	}))
	fmt.Fprintln(out, formatter.FormatSummary(board))
	return nil
}

// appendTask places t in its own stage bucket of b.
func appendTask(b *domain.Board, t *domain.Task) error {
	switch t.Status {
	case domain.StageTodo:
		b.Todo = append(b.Todo, t)
	case domain.StageInProgress:
		b.InProgress = append(b.InProgress, t)
	case domain.StageTesting:
		b.Testing = append(b.Testing, t)
	case domain.StageDone:
		b.Done = append(b.Done, t)
	default:
		return fmt.Errorf("task %s has unknown stage %q", t.ID, t.Status)
	}
	return nil
}

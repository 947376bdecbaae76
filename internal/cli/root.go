package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/kanban/internal/service"
	"github.com/alexanderramin/kanban/internal/store"
	"github.com/spf13/cobra"
)

// App holds what CLI commands need from the wired core.
type App struct {
	Board service.BoardService

	// Loc is the board time zone. Now defaults to time.Now.
	Loc *time.Location
	Now func() time.Time

	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool

	// LoadReport is the result of the startup Reload; CorruptKey names the
	// side copy mentioned when the load fell back.
	LoadReport store.LoadReport
	CorruptKey string
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) location() *time.Location {
	if a.Loc != nil {
		return a.Loc
	}
	return time.Local
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "kanban" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "kanban",
		Short:         "Single-board task tracker: todo → in progress → testing → done",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			warnLoadReport(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, app, boardFlags{})
		},
	}

	root.AddCommand(
		newBoardCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newAdvanceCmd(app),
		newReturnCmd(app),
		newShowCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newRestoreCmd(app),
		newUICmd(app),
	)

	return root
}

func warnLoadReport(cmd *cobra.Command, app *App) {
	r := app.LoadReport
	w := cmd.ErrOrStderr()
	if r.FellBack {
		fmt.Fprintf(w, "warning: saved board could not be read (%v); starting empty", r.Cause)
		if app.CorruptKey != "" {
			fmt.Fprintf(w, ", original kept under %q", app.CorruptKey)
		}
		fmt.Fprintln(w)
	}
	for _, key := range r.Dropped {
		fmt.Fprintf(w, "warning: ignored unknown column %q in saved board\n", key)
	}
}

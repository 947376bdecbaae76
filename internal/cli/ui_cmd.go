package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := tea.NewProgram(newBoardModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err := p.Run()
			return err
		},
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/alexanderramin/kanban/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// yamlTask mirrors the persisted task record for YAML output.
type yamlTask struct {
	ID           string  `yaml:"id"`
	Title        string  `yaml:"title"`
	Description  string  `yaml:"description"`
	CreatedAt    string  `yaml:"createdAt"`
	UpdatedAt    string  `yaml:"updatedAt"`
	DeadlineRaw  string  `yaml:"deadlineRaw"`
	Deadline     string  `yaml:"deadline"`
	Status       string  `yaml:"status"`
	ReturnReason *string `yaml:"returnReason"`
	InDeadline   *bool   `yaml:"inDeadline"`
}

type yamlBoard struct {
	Todo       []yamlTask `yaml:"todo"`
	InProgress []yamlTask `yaml:"inProgress"`
	Testing    []yamlTask `yaml:"testing"`
	Done       []yamlTask `yaml:"done"`
}

func toYAMLTasks(tasks []*domain.Task) []yamlTask {
	out := make([]yamlTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, yamlTask{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
			DeadlineRaw:  t.DeadlineRaw,
			Deadline:     t.Deadline,
			Status:       string(t.Status),
			ReturnReason: t.ReturnReason,
			InDeadline:   t.InDeadline,
		})
	}
	return out
}

func encodeBoard(b *domain.Board, format string) ([]byte, error) {
	switch format {
	case "json":
		raw, err := store.Encode(b)
		if err != nil {
			return nil, err
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("formatting board: %w", err)
		}
		pretty.WriteByte('\n')
		return pretty.Bytes(), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(yamlBoard{
			Todo:       toYAMLTasks(b.Todo),
			InProgress: toYAMLTasks(b.InProgress),
			Testing:    toYAMLTasks(b.Testing),
			Done:       toYAMLTasks(b.Done),
		})
		if err != nil {
			return nil, fmt.Errorf("encoding board as yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
}

func newExportCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board as JSON or YAML",
		Long: `Write the board in its saved layout. JSON output can be read back
with "kanban import".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := encodeBoard(app.Board.Snapshot(), format)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported board to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the board with a JSON export",
		Long: `Replace the whole board with the contents of a JSON file in the saved
layout ("-" reads stdin). The current board is kept as a backup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			repairs, err := app.Board.Import(cmd.Context(), data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d tasks\n", app.Board.Snapshot().Len())
			if repairs.Repaired > 0 {
				fmt.Fprintf(out, "  repaired %d tasks\n", repairs.Repaired)
			}
			if repairs.Duplicates > 0 {
				fmt.Fprintf(out, "  skipped %d duplicate ids\n", repairs.Duplicates)
			}
			for _, key := range repairs.Dropped {
				fmt.Fprintf(out, "  ignored unknown column %q\n", key)
			}
			return nil
		},
	}
}

func newRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Undo the last import",
		Long: `Put back the board that the last "kanban import" replaced. The backup
is used up; the board replaced by the restore is not kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := app.Board.RestoreBackup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d tasks from backup\n", board.Len())
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/etkinlik-toplayici/etkinlik/internal/storage"
)

func (a *app) snapshotsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.New(a.cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			defer store.Close()

			scopes, err := store.Scopes(cmd.Context())
			if err != nil {
				return err
			}

			switch OutputFormat(strings.ToLower(format)) {
			case FormatJSON:
				return writeJSON(a.stdout, scopes)
			case FormatYAML:
				return writeYAML(a.stdout, scopes)
			case FormatText:
			default:
				return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'yaml')", format)
			}

			if len(scopes) == 0 {
				fmt.Fprintf(a.stdout, "No snapshots stored in %s\n", store.Path())
				return nil
			}

			st := newStyles(isTerminal(a.stdout))
			rows := make([][]string, 0, len(scopes))
			for _, s := range scopes {
				rows = append(rows, []string{
					s.Scope,
					strconv.Itoa(s.Entries),
					s.UpdatedAt.Local().Format("02.01.2006 15:04"),
					s.RunID,
				})
			}

			tbl := table.New().
				Border(lipgloss.HiddenBorder()).
				BorderTop(false).
				BorderBottom(false).
				BorderLeft(false).
				BorderRight(false).
				BorderColumn(false).
				BorderHeader(false).
				StyleFunc(func(row, col int) lipgloss.Style {
					style := lipgloss.NewStyle().PaddingRight(2)
					if row == table.HeaderRow && st.enabled {
						style = style.Inherit(headerStyle)
					}
					return style
				}).
				Headers("SCOPE", "ENTRIES", "UPDATED", "RUN").
				Rows(rows...)

			fmt.Fprintln(a.stdout, tbl.Render())
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(FormatText), "Output format: text, json or yaml")
	return cmd
}

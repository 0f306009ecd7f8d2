// Package sources implements commands for inspecting configured sources.
package sources

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsbrief/cmd/common"
	"github.com/jonesrussell/newsbrief/internal/feed"
)

// Command returns the sources command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage configured content sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all configured sources in a table",
		RunE:  runList,
	})

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps(cmd)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	renderTable(deps.Config.Sources)

	return nil
}

// renderTable formats the sources as a table on stdout.
func renderTable(sources []feed.Source) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "Kind", "Category", "URL", "Weight"})

	for _, src := range sources {
		kind := src.Kind
		if kind == "" {
			kind = feed.KindRSS
		}

		t.AppendRow(table.Row{src.Name, kind, src.Category, src.URL, src.Weight})
	}

	t.Render()
}

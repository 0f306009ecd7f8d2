// Package ingest implements the one-shot ingestion command.
package ingest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsbrief/cmd/common"
)

// Command returns the ingest command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion pass over all configured sources",
		RunE:  runIngest,
	}
}

func runIngest(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps(cmd)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	if len(deps.Config.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	written, err := common.RunIngestion(cmd.Context(), deps)

	for _, pair := range written {
		cmd.Printf("%s\t%s\t%s\n", pair.Date, pair.RecordsPath, pair.DocumentPath)
	}

	if err != nil {
		return err
	}

	deps.Logger.Info("ingestion complete", "snapshots", len(written))

	return nil
}

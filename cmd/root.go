// Package cmd implements the newsbrief command-line interface.
package cmd

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsbrief/cmd/ingest"
	"github.com/jonesrussell/newsbrief/cmd/schedule"
	"github.com/jonesrussell/newsbrief/cmd/serve"
	cmdsources "github.com/jonesrussell/newsbrief/cmd/sources"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "newsbrief",
	Short: "A feed ingestion and daily digest service",
	Long: `newsbrief continuously ingests content from configured feeds,
deduplicates near-identical headlines, and persists bounded per-date
snapshots served back through a read API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment overrides are visible to viper.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String(
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("newsbrief version %s\n", version)
		},
	})

	rootCmd.AddCommand(ingest.Command())
	rootCmd.AddCommand(serve.Command())
	rootCmd.AddCommand(schedule.Command())
	rootCmd.AddCommand(cmdsources.Command())
}

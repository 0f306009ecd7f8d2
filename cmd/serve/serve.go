// Package serve implements the read API command.
package serve

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsbrief/cmd/common"
	"github.com/jonesrussell/newsbrief/internal/api"
	"github.com/jonesrussell/newsbrief/internal/store"
)

// Command returns the serve command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve persisted snapshots over HTTP",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps(cmd)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	fileStore, err := store.NewFileStore(deps.Config.DataDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(fileStore, deps.Metrics, deps.Logger.WithComponent("api"))

	return server.Run(ctx, deps.Config.ListenAddr)
}

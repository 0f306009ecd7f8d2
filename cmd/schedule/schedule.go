// Package schedule implements the scheduled ingestion command.
package schedule

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsbrief/cmd/common"
	"github.com/jonesrussell/newsbrief/internal/scheduler"
)

// Command returns the schedule command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run ingestion on the configured cron schedule",
		Long: `Run ingestion repeatedly on the configured cron schedule.
The scheduler runs until interrupted with Ctrl+C.`,
		RunE: runSchedule,
	}
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps(cmd)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	if len(deps.Config.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := deps.Logger.WithComponent("schedule")

	sched := scheduler.New(log)

	err = sched.Add(deps.Config.Schedule, func() {
		if _, runErr := common.RunIngestion(ctx, deps); runErr != nil {
			log.Error("scheduled ingestion failed", "error", runErr.Error())
		}
	})
	if err != nil {
		return err
	}

	// One immediate run so a fresh deployment has data before the first
	// cron tick.
	if _, runErr := common.RunIngestion(ctx, deps); runErr != nil {
		log.Error("initial ingestion failed", "error", runErr.Error())
	}

	if ctx.Err() != nil {
		return context.Cause(ctx)
	}

	sched.Run(ctx)

	return nil
}

// Package scheduler triggers ingestion runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/newsbrief/internal/logger"
)

// Scheduler wraps a cron runner with graceful shutdown.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Interface
}

// New creates a stopped scheduler.
func New(log logger.Interface) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log,
	}
}

// Add registers a job under a cron expression.
func (s *Scheduler) Add(spec string, job func()) error {
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("add cron job %q: %w", spec, err)
	}

	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits
// for any in-flight job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.log.Info("scheduler started")

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	s.log.Info("scheduler stopped")
}

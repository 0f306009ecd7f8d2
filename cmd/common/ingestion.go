package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/newsbrief/internal/domain"
	"github.com/jonesrussell/newsbrief/internal/feed"
	"github.com/jonesrussell/newsbrief/internal/fetch"
	"github.com/jonesrussell/newsbrief/internal/snapshot"
	"github.com/jonesrussell/newsbrief/internal/store"
	"github.com/jonesrussell/newsbrief/internal/titles"
)

// RunIngestion executes one full ingestion run: seed the dedup tracker
// from the title archive, fetch and parse every configured source, merge
// the surviving articles into the per-date snapshots, and archive the
// newly seen titles.
func RunIngestion(ctx context.Context, deps *Deps) ([]snapshot.WrittenPair, error) {
	cfg := deps.Config
	log := deps.Logger.WithComponent("ingestion")

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	titleIndex, err := store.OpenTitleIndex(cfg.TitleIndexPath)
	if err != nil {
		return nil, err
	}
	defer titleIndex.Close()

	client := fetch.New(cfg.Fetch, log, fetch.WithRecorder(deps.Metrics))
	defer client.Close()

	targetDate := snapshot.DateOf(time.Now())

	seed, err := seedTracker(ctx, titleIndex, cfg.SeedWindowDays)
	if err != nil {
		return nil, err
	}

	runner := feed.NewRunner(client, deps.Metrics, log, cfg.Concurrency)

	buckets, tracker, runErr := runner.Run(ctx, cfg.Sources, seed, targetDate)
	if buckets == nil {
		return nil, runErr
	}

	written, storeErr := snapshot.StoreSnapshots(
		ctx,
		buckets,
		fileStore.Persistence(),
		domain.Key,
		domain.Rank,
		cfg.RetentionLimit,
		log,
	)

	for range written {
		deps.Metrics.RecordSnapshotWritten()
	}

	if archiveErr := archiveTitles(ctx, titleIndex, tracker, targetDate); archiveErr != nil {
		log.Error("title archive update failed", "error", archiveErr.Error())
	}

	if runErr != nil || storeErr != nil {
		return written, fmt.Errorf("ingestion run completed with failures: %w",
			errors.Join(runErr, storeErr))
	}

	return written, nil
}

// seedTracker replays archived titles from the configured window so a
// restarted process does not re-ingest stories it already saw.
func seedTracker(ctx context.Context, index *store.TitleIndex, windowDays int) (*titles.Tracker, error) {
	since := snapshot.DateOf(time.Now().AddDate(0, 0, -windowDays))

	originals, err := index.OriginalsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("seed tracker: %w", err)
	}

	tracker := titles.NewTracker()
	tracker.Seed(originals...)

	return tracker, nil
}

// archiveTitles persists the run's newly tracked titles under the target
// date.
func archiveTitles(ctx context.Context, index *store.TitleIndex, tracker *titles.Tracker, date string) error {
	for _, original := range tracker.Originals() {
		normalized := titles.Normalize(original)
		if err := index.Record(ctx, date, normalized, original); err != nil {
			return err
		}
	}

	return nil
}

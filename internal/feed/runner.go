package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/newsbrief/internal/domain"
	"github.com/jonesrussell/newsbrief/internal/fetch"
	"github.com/jonesrussell/newsbrief/internal/snapshot"
	"github.com/jonesrussell/newsbrief/internal/titles"
)

const defaultConcurrency = 4

// Fetcher executes resilient page fetches.
type Fetcher interface {
	Fetch(ctx context.Context, url string, header http.Header) (*fetch.Response, error)
}

// Counter receives per-source ingestion counts.
type Counter interface {
	RecordIngested(source string)
	RecordDuplicate(source string)
}

type nopCounter struct{}

func (nopCounter) RecordIngested(string)  {}
func (nopCounter) RecordDuplicate(string) {}

// Logger provides structured logging for the runner.
type Logger interface {
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
}

// Runner fans out across sources with bounded concurrency, deduplicates
// headlines, and buckets the surviving articles by date.
type Runner struct {
	fetcher     Fetcher
	counter     Counter
	log         Logger
	concurrency int
}

// NewRunner creates a runner. A concurrency of zero or less selects the
// default bound.
func NewRunner(fetcher Fetcher, counter Counter, log Logger, concurrency int) *Runner {
	if counter == nil {
		counter = nopCounter{}
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Runner{
		fetcher:     fetcher,
		counter:     counter,
		log:         log,
		concurrency: concurrency,
	}
}

// sourceResult carries one source's deduplicated candidates.
type sourceResult struct {
	source   Source
	articles []domain.Article
}

// Run fetches every source, skips near-duplicate titles, and returns the
// surviving articles bucketed by date. Articles without a publish time
// land in the targetDate bucket.
//
// Each concurrent source gets its own tracker cloned from seed; the clones
// are reconciled into one tracker afterward, which is returned so the
// caller can persist newly seen titles. Source failures are logged,
// joined into the returned error, and do not abort the other sources.
func (r *Runner) Run(
	ctx context.Context,
	sources []Source,
	seed *titles.Tracker,
	targetDate string,
) (map[string][]domain.Article, *titles.Tracker, error) {
	if seed == nil {
		seed = titles.NewTracker()
	}

	runID := uuid.NewString()
	r.log.Info("ingestion run starting", "run_id", runID, "sources", len(sources))

	results := make([]sourceResult, len(sources))
	errsBySource := make([]error, len(sources))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, src := range sources {
		g.Go(func() error {
			articles, err := r.ingestSource(groupCtx, src, seed.Clone())
			if err != nil {
				r.log.Error("source ingestion failed",
					"run_id", runID,
					"source", src.Name,
					"error", err.Error(),
				)
				errsBySource[i] = fmt.Errorf("source %s: %w", src.Name, err)
				return nil
			}

			results[i] = sourceResult{source: src, articles: articles}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, seed, err
	}

	// Cross-source reconciliation runs sequentially in source order, so
	// the first configured source wins ties deterministically.
	master := seed.Clone()

	var kept []domain.Article

	for _, result := range results {
		for _, article := range result.articles {
			if dup, _ := master.IsDuplicate(article.Title); dup {
				r.counter.RecordDuplicate(article.Source)
				continue
			}

			master.Add(article.Title)
			r.counter.RecordIngested(article.Source)
			kept = append(kept, article)
		}
	}

	r.log.Info("ingestion run finished",
		"run_id", runID,
		"sources", len(sources),
		"articles", len(kept),
	)

	buckets := snapshot.GroupByDate(kept, domain.PublishedTime, targetDate)

	return buckets, master, errors.Join(errsBySource...)
}

// ingestSource fetches and parses one source, dropping titles already
// known to the tracker.
func (r *Runner) ingestSource(
	ctx context.Context,
	src Source,
	tracker *titles.Tracker,
) ([]domain.Article, error) {
	resp, err := r.fetcher.Fetch(ctx, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	var parsed []domain.Article

	switch src.Kind {
	case KindHTML:
		parsed, err = parseListing(resp.Body, src)
	case KindRSS, "":
		parsed, err = parseRSS(resp.Body, src)
	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind)
	}

	if err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(parsed))

	for _, article := range parsed {
		if dup, _ := tracker.IsDuplicate(article.Title); dup {
			r.counter.RecordDuplicate(src.Name)
			continue
		}

		tracker.Add(article.Title)
		articles = append(articles, article)
	}

	return articles, nil
}

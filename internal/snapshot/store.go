package snapshot

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
)

// Persistence bundles the injected collaborators used to load and write
// one date's snapshot. Load and save calls may suspend; Render is pure.
type Persistence[T any] struct {
	// LoadExisting returns the records already persisted for a date.
	// A date with no prior snapshot returns an empty sequence.
	LoadExisting func(ctx context.Context, date string) ([]T, error)
	// SaveRecords persists the structured representation, returning the
	// written path.
	SaveRecords func(ctx context.Context, records []T, date string) (string, error)
	// SaveDocument persists the human-readable representation, returning
	// the written path.
	SaveDocument func(ctx context.Context, text, date string) (string, error)
	// Render produces the human-readable representation of a date's
	// records.
	Render func(records []T, date string) string
}

// WrittenPair reports the two paths written for one date.
type WrittenPair struct {
	Date         string
	RecordsPath  string
	DocumentPath string
}

// Logger provides optional diagnostics for StoreSnapshots.
type Logger interface {
	Info(msg string, fields ...any)
	Error(msg string, fields ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// StoreSnapshots merges each date bucket against the persisted snapshot
// for that date and writes both representations through the injected
// collaborators. Dates are processed in ascending order with no cross-date
// concurrency.
//
// A persistence failure aborts only the affected date; later dates are
// still processed and earlier writes stand. All per-date failures are
// joined into the returned error. A date whose post-merge record set is
// empty is still written, so snapshots deterministically reflect merge
// output.
func StoreSnapshots[T any, K comparable, R cmp.Ordered](
	ctx context.Context,
	byDate map[string][]T,
	p Persistence[T],
	key func(T) K,
	rank func(T) R,
	limit int,
	log Logger,
) ([]WrittenPair, error) {
	if log == nil {
		log = nopLogger{}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	slices.Sort(dates)

	var (
		written []WrittenPair
		errs    []error
	)

	for _, date := range dates {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("store snapshots: %w", ctx.Err()))
			break
		}

		pair, err := storeDate(ctx, date, byDate[date], p, key, rank, limit)
		if err != nil {
			log.Error("snapshot write failed", "date", date, "error", err.Error())
			errs = append(errs, err)
			continue
		}

		log.Info("snapshot written",
			"date", date,
			"records_path", pair.RecordsPath,
			"document_path", pair.DocumentPath,
		)
		written = append(written, pair)
	}

	return written, errors.Join(errs...)
}

// storeDate runs the load-merge-save unit for a single date.
func storeDate[T any, K comparable, R cmp.Ordered](
	ctx context.Context,
	date string,
	incoming []T,
	p Persistence[T],
	key func(T) K,
	rank func(T) R,
	limit int,
) (WrittenPair, error) {
	existing, err := p.LoadExisting(ctx, date)
	if err != nil {
		return WrittenPair{}, fmt.Errorf("load existing %s: %w", date, err)
	}

	merged := MergeRanked(existing, incoming, key, rank, limit, false)

	recordsPath, err := p.SaveRecords(ctx, merged, date)
	if err != nil {
		return WrittenPair{}, fmt.Errorf("save records %s: %w", date, err)
	}

	documentPath, err := p.SaveDocument(ctx, p.Render(merged, date), date)
	if err != nil {
		return WrittenPair{}, fmt.Errorf("save document %s: %w", date, err)
	}

	return WrittenPair{Date: date, RecordsPath: recordsPath, DocumentPath: documentPath}, nil
}

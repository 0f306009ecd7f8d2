// Package snapshot provides per-date grouping, keyed merging with bounded
// retention, and delegated snapshot persistence for opaque records.
//
// Records are accessed only through caller-supplied extractor functions, so
// the package never assumes a record schema.
package snapshot

import "time"

// DateLayout is the canonical date key format for snapshot buckets.
const DateLayout = "2006-01-02"

// DateOf returns the canonical date key for a timestamp, in the
// timestamp's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidDate reports whether s is a canonical date key.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// GroupByDate buckets records by the date of their timestamp. Records whose
// extracted timestamp is the zero value fall into defaultDate. Every input
// record lands in exactly one bucket, in input order.
func GroupByDate[T any](records []T, timeOf func(T) time.Time, defaultDate string) map[string][]T {
	buckets := make(map[string][]T)

	for _, record := range records {
		ts := timeOf(record)

		date := defaultDate
		if !ts.IsZero() {
			date = DateOf(ts)
		}

		buckets[date] = append(buckets[date], record)
	}

	return buckets
}

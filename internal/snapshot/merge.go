package snapshot

import (
	"cmp"
	"slices"
)

// NoLimit disables truncation in the ranked merge operations.
// A limit of zero truncates to an empty result.
const NoLimit = -1

// Merge combines existing and incoming records into an order-preserving
// keyed sequence. Existing records are inserted first in their order; an
// incoming record whose key matches an existing one overwrites the value
// but keeps the original position. The operation is idempotent under
// repeated application of the same incoming set.
//
// The key extractor must not fail on well-formed input; extractor panics
// propagate to the caller.
func Merge[T any, K comparable](existing, incoming []T, key func(T) K) []T {
	positions := make(map[K]int, len(existing)+len(incoming))
	merged := make([]T, 0, len(existing)+len(incoming))

	for _, sequence := range [][]T{existing, incoming} {
		for _, record := range sequence {
			k := key(record)

			if at, seen := positions[k]; seen {
				merged[at] = record
				continue
			}

			positions[k] = len(merged)
			merged = append(merged, record)
		}
	}

	return merged
}

// MergeRanked merges like Merge, then re-sorts the full merged set by the
// rank extractor (descending unless ascending is set, stable order for
// equal ranks) and truncates to limit entries. Pass NoLimit to keep all.
func MergeRanked[T any, K comparable, R cmp.Ordered](
	existing, incoming []T,
	key func(T) K,
	rank func(T) R,
	limit int,
	ascending bool,
) []T {
	merged := Merge(existing, incoming, key)

	slices.SortStableFunc(merged, func(a, b T) int {
		if ascending {
			return cmp.Compare(rank(a), rank(b))
		}
		return cmp.Compare(rank(b), rank(a))
	})

	return truncate(merged, limit)
}

// MergeLimited merges like Merge and truncates to limit entries without
// re-sorting.
func MergeLimited[T any, K comparable](existing, incoming []T, key func(T) K, limit int) []T {
	return truncate(Merge(existing, incoming, key), limit)
}

// MergeGrouped applies Merge per group key. Groups present only in
// existing pass through unchanged; groups present only in incoming merge
// against an empty existing set.
func MergeGrouped[T any, K comparable](
	existing, incoming map[string][]T,
	key func(T) K,
) map[string][]T {
	merged := make(map[string][]T, len(existing)+len(incoming))

	for date, records := range existing {
		merged[date] = records
	}

	for date, records := range incoming {
		merged[date] = Merge(merged[date], records, key)
	}

	return merged
}

// MergeGroupedRanked applies MergeRanked per group key with the same
// pass-through semantics as MergeGrouped.
func MergeGroupedRanked[T any, K comparable, R cmp.Ordered](
	existing, incoming map[string][]T,
	key func(T) K,
	rank func(T) R,
	limit int,
	ascending bool,
) map[string][]T {
	merged := make(map[string][]T, len(existing)+len(incoming))

	for date, records := range existing {
		merged[date] = records
	}

	for date, records := range incoming {
		merged[date] = MergeRanked(merged[date], records, key, rank, limit, ascending)
	}

	return merged
}

func truncate[T any](records []T, limit int) []T {
	if limit < 0 || len(records) <= limit {
		return records
	}
	return records[:limit]
}

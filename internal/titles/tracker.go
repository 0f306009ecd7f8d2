package titles

// Tracker records normalized titles seen within one ingestion run.
// It is not safe for unsynchronized concurrent mutation; give concurrent
// workers separate trackers and combine them with Merge afterward.
type Tracker struct {
	// seen maps normalized title to the first-seen original title.
	seen map[string]string
	// order preserves first-seen insertion order of normalized titles.
	order []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]string)}
}

// IsDuplicate reports whether the title's normalized form has been seen.
// It never mutates the tracker. The normalized form is returned so callers
// can reuse it without normalizing twice.
func (t *Tracker) IsDuplicate(title string) (bool, string) {
	normalized := Normalize(title)
	_, exists := t.seen[normalized]

	return exists, normalized
}

// Add records the title and returns its normalized form. If the normalized
// form already exists, the first-seen original title is kept.
func (t *Tracker) Add(title string) string {
	normalized := Normalize(title)
	if _, exists := t.seen[normalized]; !exists {
		t.seen[normalized] = title
		t.order = append(t.order, normalized)
	}

	return normalized
}

// Count returns the number of distinct normalized titles tracked.
func (t *Tracker) Count() int {
	return len(t.seen)
}

// OriginalFor returns the first-seen original title for a normalized form.
func (t *Tracker) OriginalFor(normalized string) (string, bool) {
	original, ok := t.seen[normalized]
	return original, ok
}

// Seed replays previously persisted titles into the tracker, typically at
// run start so restart safety holds without external locking.
func (t *Tracker) Seed(previous ...string) {
	for _, title := range previous {
		t.Add(title)
	}
}

// Merge folds another tracker into this one. Entries already present keep
// their first-seen original.
func (t *Tracker) Merge(other *Tracker) {
	if other == nil {
		return
	}

	for _, normalized := range other.order {
		if _, exists := t.seen[normalized]; !exists {
			t.seen[normalized] = other.seen[normalized]
			t.order = append(t.order, normalized)
		}
	}
}

// Clone returns an independent copy of the tracker.
func (t *Tracker) Clone() *Tracker {
	clone := &Tracker{
		seen:  make(map[string]string, len(t.seen)),
		order: make([]string, len(t.order)),
	}

	for normalized, original := range t.seen {
		clone.seen[normalized] = original
	}
	copy(clone.order, t.order)

	return clone
}

// Originals returns the first-seen original titles in insertion order,
// suitable for persisting between runs.
func (t *Tracker) Originals() []string {
	originals := make([]string, 0, len(t.order))
	for _, normalized := range t.order {
		originals = append(originals, t.seen[normalized])
	}

	return originals
}

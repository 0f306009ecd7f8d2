// Package domain defines the records exchanged between ingestion,
// merging, persistence, and the read API.
package domain

import "time"

// Article is one ingested content item. The snapshot engine never depends
// on this type directly; it receives the extractor functions below.
type Article struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Category    string    `json:"category,omitempty"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary,omitempty"`
	Score       float64   `json:"score"`
	PublishedAt time.Time `json:"published_at"`
}

// Key returns the merge key for an article: the ID when set, otherwise
// the URL.
func Key(a Article) string {
	if a.ID != "" {
		return a.ID
	}
	return a.URL
}

// Rank returns the sort key used for snapshot ordering.
func Rank(a Article) float64 {
	return a.Score
}

// PublishedTime returns the timestamp used for date grouping. The zero
// value means the publish time is unknown.
func PublishedTime(a Article) time.Time {
	return a.PublishedAt
}

package feed_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsbrief/internal/feed"
	"github.com/jonesrussell/newsbrief/internal/fetch"
	"github.com/jonesrussell/newsbrief/internal/logger"
	"github.com/jonesrussell/newsbrief/internal/titles"
)

// fakeFetcher serves canned bodies keyed by URL.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, _ http.Header) (*fetch.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return nil, err
	}

	body, ok := f.bodies[url]
	if !ok {
		return nil, fmt.Errorf("no canned body for %s", url)
	}

	return &fetch.Response{Status: http.StatusOK, Body: []byte(body)}, nil
}

// countingCounter records per-source counts.
type countingCounter struct {
	mu         sync.Mutex
	ingested   map[string]int
	duplicates map[string]int
}

func newCountingCounter() *countingCounter {
	return &countingCounter{
		ingested:   make(map[string]int),
		duplicates: make(map[string]int),
	}
}

func (c *countingCounter) RecordIngested(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingested[source]++
}

func (c *countingCounter) RecordDuplicate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duplicates[source]++
}

func rssBody(titleLinks ...[2]string) string {
	items := ""
	for _, tl := range titleLinks {
		items += fmt.Sprintf(
			"<item><title>%s</title><link>%s</link></item>", tl[0], tl[1],
		)
	}

	return `<?xml version="1.0"?><rss version="2.0"><channel>` + items + `</channel></rss>`
}

func TestRunner_DeduplicatesAcrossSources(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{
		"https://one.example.com/rss": rssBody(
			[2]string{"Shared Story", "https://one.example.com/a"},
			[2]string{"Only One", "https://one.example.com/b"},
		),
		"https://two.example.com/rss": rssBody(
			[2]string{"SHARED STORY", "https://two.example.com/a"},
			[2]string{"Only Two", "https://two.example.com/b"},
		),
	}}

	sources := []feed.Source{
		{Name: "one", URL: "https://one.example.com/rss"},
		{Name: "two", URL: "https://two.example.com/rss"},
	}

	counter := newCountingCounter()
	runner := feed.NewRunner(fetcher, counter, logger.NewNop(), 2)

	buckets, tracker, err := runner.Run(context.Background(), sources, nil, "2024-01-01")
	require.NoError(t, err)

	// Items without pubDate land in the target date bucket.
	require.Contains(t, buckets, "2024-01-01")
	articles := buckets["2024-01-01"]

	require.Len(t, articles, 3)

	gotTitles := make([]string, 0, len(articles))
	for _, a := range articles {
		gotTitles = append(gotTitles, a.Title)
	}

	// The first configured source wins the cross-source tie.
	assert.Equal(t, []string{"Shared Story", "Only One", "Only Two"}, gotTitles)

	assert.Equal(t, 2, counter.ingested["one"])
	assert.Equal(t, 1, counter.ingested["two"])
	assert.Equal(t, 1, counter.duplicates["two"])

	assert.Equal(t, 3, tracker.Count())
}

func TestRunner_SeededTitlesAreSkipped(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{
		"https://one.example.com/rss": rssBody(
			[2]string{"Already Seen", "https://one.example.com/a"},
			[2]string{"Brand New", "https://one.example.com/b"},
		),
	}}

	seed := titles.NewTracker()
	seed.Seed("ALREADY SEEN")

	runner := feed.NewRunner(fetcher, nil, logger.NewNop(), 1)

	buckets, _, err := runner.Run(
		context.Background(),
		[]feed.Source{{Name: "one", URL: "https://one.example.com/rss"}},
		seed,
		"2024-01-01",
	)
	require.NoError(t, err)

	articles := buckets["2024-01-01"]
	require.Len(t, articles, 1)
	assert.Equal(t, "Brand New", articles[0].Title)
}

func TestRunner_SourceFailureDoesNotAbortOthers(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		bodies: map[string]string{
			"https://ok.example.com/rss": rssBody(
				[2]string{"Good Story", "https://ok.example.com/a"},
			),
		},
		errs: map[string]error{
			"https://down.example.com/rss": fmt.Errorf("connection refused"),
		},
	}

	sources := []feed.Source{
		{Name: "down", URL: "https://down.example.com/rss"},
		{Name: "ok", URL: "https://ok.example.com/rss"},
	}

	runner := feed.NewRunner(fetcher, nil, logger.NewNop(), 2)

	buckets, _, err := runner.Run(context.Background(), sources, nil, "2024-01-01")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")

	require.Contains(t, buckets, "2024-01-01")
	require.Len(t, buckets["2024-01-01"], 1)
	assert.Equal(t, "Good Story", buckets["2024-01-01"][0].Title)
}

func TestRunner_UnknownSourceKind(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{bodies: map[string]string{
		"https://one.example.com": "irrelevant",
	}}

	runner := feed.NewRunner(fetcher, nil, logger.NewNop(), 1)

	_, _, err := runner.Run(
		context.Background(),
		[]feed.Source{{Name: "one", URL: "https://one.example.com", Kind: "gopher"}},
		nil,
		"2024-01-01",
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown source kind "gopher"`)
}

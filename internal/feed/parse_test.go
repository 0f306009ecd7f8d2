package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <item>
      <title>First Story</title>
      <link>https://example.com/first</link>
      <guid>first-guid</guid>
      <description>A first story.</description>
      <pubDate>Mon, 01 Jan 2024 08:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second Story</title>
      <link>https://example.com/second</link>
    </item>
    <item>
      <title></title>
      <link>https://example.com/untitled</link>
    </item>
  </channel>
</rss>`

func TestParseRSS(t *testing.T) {
	t.Parallel()

	src := Source{Name: "example", Category: "Tech", Kind: KindRSS, Weight: 2}

	articles, err := parseRSS([]byte(sampleRSS), src)
	require.NoError(t, err)

	// The untitled item is dropped.
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "first-guid", first.ID)
	assert.Equal(t, "example", first.Source)
	assert.Equal(t, "Tech", first.Category)
	assert.Equal(t, "First Story", first.Title)
	assert.Equal(t, "https://example.com/first", first.URL)
	assert.Equal(t, "A first story.", first.Summary)
	assert.Equal(t, 2.0, first.Score)
	assert.Equal(t, 2024, first.PublishedAt.Year())

	second := articles[1]
	assert.Equal(t, "https://example.com/second", second.ID, "missing guid falls back to link")
	assert.True(t, second.PublishedAt.IsZero(), "missing pubDate keeps the zero time")
	assert.Equal(t, 2.0, second.Score)
}

func TestParseRSS_Invalid(t *testing.T) {
	t.Parallel()

	_, err := parseRSS([]byte("not xml at all"), Source{Name: "broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

const sampleListing = `<!DOCTYPE html>
<html><body>
  <div class="headlines">
    <a class="headline" href="/stories/1">Local Story One</a>
    <a class="headline" href="https://other.example.net/2">Absolute Story</a>
    <a class="headline" href="/stories/3">   </a>
  </div>
  <a class="unrelated" href="/ads/1">Sponsored</a>
</body></html>`

func TestParseListing(t *testing.T) {
	t.Parallel()

	src := Source{
		Name:     "listing",
		URL:      "https://example.com/news",
		Kind:     KindHTML,
		Selector: "a.headline",
	}

	articles, err := parseListing([]byte(sampleListing), src)
	require.NoError(t, err)

	// The blank-text anchor is dropped, the unrelated anchor not matched.
	require.Len(t, articles, 2)

	assert.Equal(t, "Local Story One", articles[0].Title)
	assert.Equal(t, "https://example.com/stories/1", articles[0].URL,
		"relative hrefs resolve against the page URL")

	assert.Equal(t, "Absolute Story", articles[1].Title)
	assert.Equal(t, "https://other.example.net/2", articles[1].URL)
}

func TestParseListing_NestedAnchor(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	  <li class="item"><a href="/a">Wrapped Story</a></li>
	</body></html>`

	src := Source{
		Name:     "nested",
		URL:      "https://example.com/",
		Kind:     KindHTML,
		Selector: "li.item",
	}

	articles, err := parseListing([]byte(page), src)
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "Wrapped Story", articles[0].Title)
	assert.Equal(t, "https://example.com/a", articles[0].URL)
}

func TestSourceWeight_DefaultsToOne(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, sourceWeight(Source{}))
	assert.Equal(t, 3.5, sourceWeight(Source{Weight: 3.5}))
}

package feed

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/newsbrief/internal/domain"
)

// parseRSS maps feed items to articles. Items without a title are
// dropped; items without a parseable publish time keep the zero value so
// grouping assigns them the run's default date.
func parseRSS(body []byte, src Source) ([]domain.Article, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse rss %s: %w", src.Name, err)
	}

	articles := make([]domain.Article, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		if item == nil || item.Title == "" {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}

		articles = append(articles, domain.Article{
			ID:          id,
			Source:      src.Name,
			Category:    src.Category,
			Title:       item.Title,
			URL:         item.Link,
			Summary:     item.Description,
			Score:       sourceWeight(src),
			PublishedAt: published,
		})
	}

	return articles, nil
}

func sourceWeight(src Source) float64 {
	if src.Weight > 0 {
		return src.Weight
	}
	return 1.0
}

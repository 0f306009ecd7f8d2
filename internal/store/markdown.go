package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonesrussell/newsbrief/internal/domain"
)

const uncategorized = "General"

// RenderDigest produces the Markdown digest for one date's articles.
// Articles are grouped by category; input order is preserved within a
// category, so the caller's ranking carries through.
func RenderDigest(articles []domain.Article, date string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Brief — %s\n\n", date)

	if len(articles) == 0 {
		b.WriteString("No articles for this date.\n")
		return b.String()
	}

	byCategory := make(map[string][]domain.Article)
	var categories []string

	for _, article := range articles {
		category := article.Category
		if category == "" {
			category = uncategorized
		}

		if _, seen := byCategory[category]; !seen {
			categories = append(categories, category)
		}
		byCategory[category] = append(byCategory[category], article)
	}

	sort.Strings(categories)

	for _, category := range categories {
		fmt.Fprintf(&b, "## %s\n\n", category)

		for _, article := range byCategory[category] {
			if article.URL != "" {
				fmt.Fprintf(&b, "- [%s](%s) — %s\n", article.Title, article.URL, article.Source)
			} else {
				fmt.Fprintf(&b, "- %s — %s\n", article.Title, article.Source)
			}

			if article.Summary != "" {
				fmt.Fprintf(&b, "  > %s\n", article.Summary)
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}

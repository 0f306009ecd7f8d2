package feed

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/newsbrief/internal/domain"
)

// parseListing extracts articles from an HTML listing page using the
// source's CSS selector. Each match contributes its text as the title and
// its href, resolved against the page URL, as the link.
func parseListing(body []byte, src Source) ([]domain.Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", src.Name, err)
	}

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("parse source url %s: %w", src.Name, err)
	}

	var articles []domain.Article

	doc.Find(src.Selector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return
		}

		link := resolveHref(base, sel)

		articles = append(articles, domain.Article{
			ID:       link,
			Source:   src.Name,
			Category: src.Category,
			Title:    title,
			URL:      link,
			Score:    sourceWeight(src),
		})
	})

	return articles, nil
}

// resolveHref finds the nearest href on the selection or its descendants
// and resolves it against the page URL.
func resolveHref(base *url.URL, sel *goquery.Selection) string {
	href, ok := sel.Attr("href")
	if !ok {
		href, ok = sel.Find("a[href]").First().Attr("href")
	}
	if !ok || href == "" {
		return ""
	}

	resolved, err := base.Parse(href)
	if err != nil {
		return ""
	}

	return resolved.String()
}

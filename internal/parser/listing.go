package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/seminovas-importer/internal/models"
)

// ParseListing returns one item per h2/h3 heading that has text and a link,
// either enclosing the heading or inside it. Headings without a link are skipped.
func ParseListing(html string, baseURL string) ([]models.ListingItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	items := make([]models.ListingItem, 0)
	doc.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		name := textOf(heading)
		if name == "" {
			return
		}

		link := heading.Closest("a")
		if link.Length() == 0 {
			link = heading.Find("a").First()
		}
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		items = append(items, models.ListingItem{
			Name:      name,
			DetailURL: ResolveURL(strings.TrimSpace(href), baseURL),
		})
	})

	return items, nil
}

package crawler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maltedev/seminovas-importer/internal/fetch"
	"github.com/maltedev/seminovas-importer/internal/models"
	"github.com/maltedev/seminovas-importer/internal/parser"
	"github.com/maltedev/seminovas-importer/internal/ratelimit"
)

// Crawler walks one listing page and scrapes every linked detail page in order.
type Crawler struct {
	listingPages fetch.PageFetcher
	detailPages  fetch.PageFetcher
	parser       parser.Parser
	limiter      ratelimit.RateLimiter
	logger       *slog.Logger
}

type Options struct {
	// ListingPages renders the listing page; defaults to DetailPages.
	ListingPages fetch.PageFetcher
	DetailPages  fetch.PageFetcher
	Parser       parser.Parser
	Limiter      ratelimit.RateLimiter
}

func New(opts Options, logger *slog.Logger) *Crawler {
	listing := opts.ListingPages
	if listing == nil {
		listing = opts.DetailPages
	}
	p := opts.Parser
	if p == nil {
		p = parser.NewDetailParser(parser.WithGalleryScope())
	}
	return &Crawler{
		listingPages: listing,
		detailPages:  opts.DetailPages,
		parser:       p,
		limiter:      opts.Limiter,
		logger:       logger.With("component", "crawler"),
	}
}

// Crawl fails if the listing page cannot be fetched. A detail page that
// cannot be fetched or parsed is logged and left out.
func (c *Crawler) Crawl(ctx context.Context, listingURL string, baseURL string) ([]models.ScrapedListing, error) {
	c.logger.Info("fetching listing", "url", listingURL)

	html, err := c.listingPages.FetchHTML(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	items, err := parser.ParseListing(html, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}
	items = uniqueByDetailURL(items)

	c.logger.Info("listing parsed", "items", len(items))

	details := make([]models.ScrapedListing, 0, len(items))
	for _, item := range items {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return details, err
			}
		}

		detail, err := c.scrapeDetail(ctx, item)
		c.recordOutcome(err)
		if err != nil {
			if ctx.Err() != nil {
				return details, ctx.Err()
			}
			c.logger.Warn("detail skipped", "name", item.Name, "url", item.DetailURL, "error", err)
			continue
		}

		details = append(details, *detail)
		c.logger.Debug("detail scraped", "name", detail.Name, "images", len(detail.Images))
	}

	c.logger.Info("crawl finished", "items", len(items), "details", len(details))
	return details, nil
}

func (c *Crawler) scrapeDetail(ctx context.Context, item models.ListingItem) (*models.ScrapedListing, error) {
	html, err := c.detailPages.FetchHTML(ctx, item.DetailURL)
	if err != nil {
		return nil, err
	}
	return c.parser.ParseDetail(html, item.DetailURL)
}

func (c *Crawler) recordOutcome(err error) {
	feedback, ok := c.limiter.(ratelimit.Feedback)
	if !ok {
		return
	}
	if err != nil {
		feedback.RecordError()
	} else {
		feedback.RecordSuccess()
	}
}

// uniqueByDetailURL keeps the first item for each detail URL.
func uniqueByDetailURL(items []models.ListingItem) []models.ListingItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.ListingItem, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.DetailURL]; ok {
			continue
		}
		seen[item.DetailURL] = struct{}{}
		out = append(out, item)
	}
	return out
}

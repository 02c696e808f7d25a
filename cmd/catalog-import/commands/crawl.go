package commands

import (
	"fmt"
	"os"

	"github.com/maltedev/seminovas-importer/internal/browser"
	"github.com/maltedev/seminovas-importer/internal/crawler"
	"github.com/maltedev/seminovas-importer/internal/fetch"
	"github.com/maltedev/seminovas-importer/internal/parser"
	"github.com/maltedev/seminovas-importer/internal/ratelimit"
	"github.com/maltedev/seminovas-importer/internal/storage"
	"github.com/spf13/cobra"
)

var crawlOut *string

func init() {
	crawlOut = crawlCmd.Flags().String("out", "", "File to write the scraped listings to. Defaults to stdout.")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [listingURL] [--out <seminovas.json>]",
	Short: "Scrapes the seminovos listing and every detail page into a JSON file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listingURL := cfg.Scraper.ListingURL
		if len(args) == 1 {
			listingURL = args[0]
		}

		pages := fetch.NewHTTPFetcher(fetch.Options{
			UserAgent: cfg.Scraper.UserAgent,
			Timeout:   cfg.Scraper.FetchTimeout,
		}, logger)

		opts := crawler.Options{
			DetailPages: pages,
			Parser:      parser.NewDetailParser(parser.WithGalleryScope()),
			Limiter:     ratelimit.NewAdaptiveLimiter(cfg.Scraper.RateLimitMin, cfg.Scraper.RateLimitMax),
		}

		if cfg.Scraper.UseBrowser {
			browserOpts := browser.DefaultOptions()
			browserOpts.UserAgent = cfg.Scraper.UserAgent
			b, err := browser.New(browserOpts, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize browser: %w", err)
			}
			defer b.Close()
			opts.ListingPages = b
		}

		listings, err := crawler.New(opts, logger).Crawl(cmd.Context(), listingURL, cfg.Scraper.BaseURL)
		if err != nil {
			return err
		}

		if *crawlOut == "" {
			return storage.WriteListings(os.Stdout, listings)
		}
		if err := storage.SaveListings(*crawlOut, listings); err != nil {
			return err
		}
		logger.Info("listings saved", "file", *crawlOut, "count", len(listings))
		return nil
	},
}

package commands

import (
	"os"

	"github.com/maltedev/seminovas-importer/internal/catalog"
	"github.com/maltedev/seminovas-importer/internal/fetch"
	"github.com/maltedev/seminovas-importer/internal/parser"
	"github.com/maltedev/seminovas-importer/internal/storage"
	"github.com/spf13/cobra"
)

var importFile *string

func init() {
	importFile = importCmd.Flags().String("file", "", "Listings file produced by crawl. Defaults to SEMINOVAS_FILE.")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [--file <seminovas.json>]",
	Short: "Imports a crawled listings file into the catalog.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := *importFile
		if file == "" {
			file = cfg.Import.SeminovasFile
		}

		listings, err := storage.LoadListings(file)
		if err != nil {
			return err
		}

		db, store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		fetcher := fetch.NewHTTPFetcher(fetch.Options{
			UserAgent: cfg.Scraper.UserAgent,
			Timeout:   cfg.Scraper.FetchTimeout,
		}, logger)
		assets := catalog.NewAssetImporter(fetcher, store, cfg.Scraper.TempDir, logger)
		importer := catalog.NewImporter(fetcher, parser.NewDetailParser(), store, assets, logger)

		tally, err := importer.ImportBatch(cmd.Context(), listings)
		if err != nil {
			logger.Error("import aborted", "error", err, "total", tally.Total)
			return err
		}

		printTally(os.Stdout, tally)
		return nil
	},
}

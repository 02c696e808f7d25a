package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maltedev/seminovas-importer/internal/fetch"
	"github.com/maltedev/seminovas-importer/internal/metrics"
	"github.com/maltedev/seminovas-importer/internal/models"
	"github.com/maltedev/seminovas-importer/internal/parser"
)

// Importer turns scraped listings into catalog records. Listings and images
// are processed strictly one after another.
type Importer struct {
	pages  fetch.PageFetcher
	parser parser.Parser
	store  SeminovaStore
	assets *AssetImporter
	logger *slog.Logger
}

func NewImporter(pages fetch.PageFetcher, p parser.Parser, store SeminovaStore, assets *AssetImporter, logger *slog.Logger) *Importer {
	return &Importer{
		pages:  pages,
		parser: p,
		store:  store,
		assets: assets,
		logger: logger.With("component", "importer"),
	}
}

// ImportFromURL fetches one detail page and upserts it. Fetch failures and
// listings without price or years are reported as skip results, not errors.
// Store errors are returned as is.
func (i *Importer) ImportFromURL(ctx context.Context, detailURL string) (models.ImportResult, error) {
	start := time.Now()
	defer func() {
		metrics.ImportDuration.WithLabelValues(metrics.SourceHTTP).Observe(time.Since(start).Seconds())
	}()

	result, err := i.importFromURL(ctx, detailURL)
	if err != nil {
		i.logger.Error("import failed", "url", detailURL, "error", err)
		return result, err
	}

	metrics.ImportsTotal.WithLabelValues(metrics.SourceHTTP, string(result)).Inc()
	i.logger.Info("import finished", "url", detailURL, "result", result)
	return result, nil
}

func (i *Importer) importFromURL(ctx context.Context, detailURL string) (models.ImportResult, error) {
	html, err := i.pages.FetchHTML(ctx, detailURL)
	if err != nil {
		if errors.Is(err, fetch.ErrSourceUnavailable) {
			i.logger.Warn("detail page unavailable", "url", detailURL, "error", err)
			return models.ResultSkippedFetch, nil
		}
		return "", err
	}

	listing, err := i.parser.ParseDetail(html, detailURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse detail page: %w", err)
	}

	rec, err := BuildSeminova(listing, RecordOptions{Placa: PlacaPadrao})
	if err != nil {
		if errors.Is(err, ErrPrecoOuAno) {
			i.logger.Warn("listing without price or years", "url", detailURL, "price", listing.PriceText)
			return models.ResultSkippedPrecoOuAno, nil
		}
		return "", err
	}

	local, err := i.resolveLocal(ctx)
	if err != nil {
		return "", err
	}
	rec.Local = local

	images := i.assets.ImportImages(ctx, listing.Name, listing.Images)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec.Imagem = images.Principal
	rec.Galeria = images.Galeria

	return i.upsert(ctx, rec)
}

// ImportScraped imports one entry of a crawl file. index is the 0-based
// position in the file and drives the placeholder plate. Entries without a
// stored main image are skipped.
func (i *Importer) ImportScraped(ctx context.Context, listing *models.ScrapedListing, index int, local string) (models.ImportResult, error) {
	rec, err := BuildSeminova(listing, RecordOptions{Placa: PlacaFicticia(index), Local: local})
	if err != nil {
		if errors.Is(err, ErrPrecoOuAno) {
			i.logger.Warn("listing without price or years", "name", listing.Name, "price", listing.PriceText)
			return models.ResultSkipped, nil
		}
		return "", err
	}

	images := i.assets.ImportImages(ctx, listing.Name, listing.Images)
	if images.Principal == nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		i.logger.Warn("listing without main image", "name", listing.Name, "slug", rec.ID)
		return models.ResultSkipped, nil
	}
	rec.Imagem = images.Principal
	rec.Galeria = images.Galeria

	return i.upsert(ctx, rec)
}

// ImportBatch runs ImportScraped over every entry in order. The first store
// error or a cancelled ctx aborts the run and is returned with the tally so
// far; entries that were never processed are not counted.
func (i *Importer) ImportBatch(ctx context.Context, listings []models.ScrapedListing) (models.ImportTally, error) {
	tally := models.ImportTally{Total: len(listings)}

	local, err := i.resolveLocal(ctx)
	if err != nil {
		return tally, err
	}

	i.logger.Info("starting batch import", "total", tally.Total, "local", local)

	for idx := range listings {
		if err := ctx.Err(); err != nil {
			return tally, fmt.Errorf("batch import interrupted before entry %d: %w", idx, err)
		}

		start := time.Now()
		result, err := i.ImportScraped(ctx, &listings[idx], idx, local)
		metrics.ImportDuration.WithLabelValues(metrics.SourceBatch).Observe(time.Since(start).Seconds())
		if err != nil {
			return tally, fmt.Errorf("failed to import entry %d (%s): %w", idx, listings[idx].Name, err)
		}

		tally.Record(result)
		metrics.ImportsTotal.WithLabelValues(metrics.SourceBatch, string(result)).Inc()
		i.logger.Info("entry imported", "index", idx, "name", listings[idx].Name, "result", result)
	}

	return tally, nil
}

func (i *Importer) resolveLocal(ctx context.Context) (string, error) {
	dados, err := i.store.FindDadosInstitucionais(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", models.GlobalDadosInstitucionais, err)
	}
	return ResolverLocal(dados), nil
}

func (i *Importer) upsert(ctx context.Context, rec *models.MotoSeminova) (models.ImportResult, error) {
	existing, err := i.store.FindSeminovaByID(ctx, rec.ID)
	if err != nil {
		return "", fmt.Errorf("failed to find seminova %s: %w", rec.ID, err)
	}

	if existing != nil {
		rec.ID = existing.ID
		if err := i.store.UpdateSeminova(ctx, existing.ID, rec); err != nil {
			return "", fmt.Errorf("failed to update seminova %s: %w", rec.ID, err)
		}
		return models.ResultUpdated, nil
	}

	if err := i.store.CreateSeminova(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to create seminova %s: %w", rec.ID, err)
	}
	return models.ResultCreated, nil
}

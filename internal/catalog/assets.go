package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/maltedev/seminovas-importer/internal/fetch"
	"github.com/maltedev/seminovas-importer/internal/metrics"
	"github.com/maltedev/seminovas-importer/internal/models"
)

// MaxImages bounds how many scraped images are downloaded per listing:
// the main image plus up to five gallery images.
const MaxImages = 6

const fallbackFilename = "imagem-seminova.jpg"

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
	"image/avif",
	"image/gif",
}

// ProcessedImages is the outcome of importing a listing's images.
// Principal is nil when the main image could not be stored.
type ProcessedImages struct {
	Principal *int64
	Galeria   []models.GaleriaItem
}

// AssetImporter downloads images one at a time, stages them in a temp file
// and hands them to the media store.
type AssetImporter struct {
	fetcher fetch.BinaryFetcher
	media   MediaStore
	tempDir string
	logger  *slog.Logger
}

func NewAssetImporter(fetcher fetch.BinaryFetcher, media MediaStore, tempDir string, logger *slog.Logger) *AssetImporter {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &AssetImporter{
		fetcher: fetcher,
		media:   media,
		tempDir: tempDir,
		logger:  logger.With("component", "assets"),
	}
}

// ImportImages stores the first image as the main one and the next ones as
// gallery entries. A failed image is logged and left out.
func (a *AssetImporter) ImportImages(ctx context.Context, name string, images []models.ScrapedImage) ProcessedImages {
	result := ProcessedImages{Galeria: []models.GaleriaItem{}}
	if len(images) == 0 {
		return result
	}
	if len(images) > MaxImages {
		images = images[:MaxImages]
	}

	main := images[0]
	if id, err := a.ImportImage(ctx, main, altOrDefault(main.Alt, name)); err != nil {
		a.logger.Warn("main image skipped", "url", main.URL, "error", err)
	} else {
		result.Principal = &id
	}

	for _, img := range images[1:] {
		alt := altOrDefault(img.Alt, fmt.Sprintf("%s galeria %d", name, len(result.Galeria)+1))
		id, err := a.ImportImage(ctx, img, alt)
		if err != nil {
			a.logger.Warn("gallery image skipped", "url", img.URL, "error", err)
			continue
		}
		result.Galeria = append(result.Galeria, models.GaleriaItem{Imagem: id, Alt: alt})
	}

	return result
}

// ImportImage downloads one image and creates a media asset for it. The
// staged file is always removed.
func (a *AssetImporter) ImportImage(ctx context.Context, img models.ScrapedImage, alt string) (int64, error) {
	bin, err := a.fetcher.FetchBinary(ctx, img.URL)
	if err != nil {
		metrics.AssetsTotal.WithLabelValues("failed").Inc()
		return 0, err
	}

	if !isAllowedImageType(bin.ContentType) {
		metrics.AssetsTotal.WithLabelValues("rejected").Inc()
		return 0, fmt.Errorf("%w: %q", ErrAssetRejected, bin.ContentType)
	}

	tmp, err := os.CreateTemp(a.tempDir, "seminova-*-"+filenameFromURL(img.URL))
	if err != nil {
		metrics.AssetsTotal.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	_, err = tmp.Write(bin.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		metrics.AssetsTotal.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("failed to write temp file: %w", err)
	}

	id, err := a.media.CreateMidia(ctx, alt, tmp.Name())
	if err != nil {
		metrics.AssetsTotal.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("failed to create midia: %w", err)
	}

	metrics.AssetsTotal.WithLabelValues("stored").Inc()
	a.logger.Debug("image stored", "url", img.URL, "midia_id", id)
	return id, nil
}

func isAllowedImageType(contentType string) bool {
	for _, allowed := range allowedImageTypes {
		if strings.Contains(contentType, allowed) {
			return true
		}
	}
	return false
}

func altOrDefault(alt *string, fallback string) string {
	if alt != nil && strings.TrimSpace(*alt) != "" {
		return *alt
	}
	return fallback
}

// filenameFromURL returns the last non-empty path segment, safe for use in a
// temp file pattern.
func filenameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fallbackFilename
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return fallbackFilename
	}
	last := strings.TrimSpace(segments[len(segments)-1])
	if last == "" || strings.ContainsAny(last, `*\`) {
		return fallbackFilename
	}
	return last
}

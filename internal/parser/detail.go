package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/seminovas-importer/internal/models"
)

const (
	priceSelector        = ".used-cars-internal-info-price"
	featureItemSelector  = ".used-cars-internal-feature-item"
	featureLabelSelector = ".used-cars-internal-feature-text"
	featureValueSelector = ".used-cars-internal-feature-value"
	locationSelector     = ".loja, .local, .filial"
	gallerySelector      = ".galeria, .gallery, .product-gallery, .swiper, .swiper-wrapper, .carousel, .slides"
)

// DetailParser turns a seminovo detail page into a ScrapedListing.
type DetailParser struct {
	galleryOnly bool
}

type DetailOption func(*DetailParser)

// WithGalleryScope limits image extraction to the first gallery container,
// falling back to <main> and then <body>. Without it every image on the
// page is considered.
func WithGalleryScope() DetailOption {
	return func(p *DetailParser) {
		p.galleryOnly = true
	}
}

func NewDetailParser(opts ...DetailOption) *DetailParser {
	p := &DetailParser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseDetail never fails on missing blocks: absent fields stay empty or nil
// and the record builder decides whether the listing is usable.
func (p *DetailParser) ParseDetail(html string, detailURL string) (*models.ScrapedListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	fullText := collapseWhitespace(doc.Find("body").Text())
	if fullText == "" {
		fullText = collapseWhitespace(doc.Text())
	}

	name := textOf(doc.Find("h1").First())
	if name == "" {
		name = detailURL
	}

	listing := &models.ScrapedListing{
		Name:      name,
		PriceText: textOf(doc.Find(priceSelector).First()),
	}

	var colorRaw string
	doc.Find(featureItemSelector).Each(func(_ int, item *goquery.Selection) {
		label := strings.ToLower(textOf(item.Find(featureLabelSelector).First()))
		value := textOf(item.Find(featureValueSelector).First())

		switch {
		case strings.Contains(label, "ano"):
			listing.YearText = value
		case strings.Contains(label, "km"):
			listing.MileageText = value
		case strings.Contains(label, "cor"):
			colorRaw = value
		}
	})

	if location := textOf(doc.Find(locationSelector).First()); location != "" {
		listing.LocationText = &location
	}

	years := ExtractYearsFromText(firstNonEmpty(listing.YearText, fullText))
	listing.AnoFabricacao = years.AnoFabricacao
	listing.AnoModelo = years.AnoModelo

	mileage := ExtractMileageFromText(firstNonEmpty(listing.MileageText, fullText))
	listing.QuilometragemNumero = mileage.Numero
	listing.QuilometragemTexto = mileage.Texto

	if colorRaw != "" {
		cor := strings.ToLower(colorRaw)
		listing.Cor = &cor
	} else {
		listing.Cor = ExtractColorFromText(firstNonEmpty(fullText, name))
	}

	listing.Images = toScrapedImages(extractImages(p.imageRoot(doc), detailURL))

	return listing, nil
}

func (p *DetailParser) imageRoot(doc *goquery.Document) *goquery.Selection {
	if !p.galleryOnly {
		return doc.Selection
	}
	for _, selector := range []string{gallerySelector, "main", "body"} {
		if root := doc.Find(selector).First(); root.Length() > 0 {
			return root
		}
	}
	return doc.Selection
}

func toScrapedImages(images []Image) []models.ScrapedImage {
	out := make([]models.ScrapedImage, 0, len(images))
	for _, img := range images {
		out = append(out, models.ScrapedImage{URL: img.URL, Alt: img.Alt})
	}
	return out
}

func textOf(s *goquery.Selection) string {
	return collapseWhitespace(s.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package parser

import (
	"github.com/maltedev/seminovas-importer/internal/models"
)

type Parser interface {
	ParseDetail(html string, detailURL string) (*models.ScrapedListing, error)
}

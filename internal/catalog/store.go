package catalog

import (
	"context"

	"github.com/maltedev/seminovas-importer/internal/models"
)

// SeminovaStore is the slice of the content store the orchestrator needs.
// FindSeminovaByID returns nil, nil when no record has that id.
type SeminovaStore interface {
	FindSeminovaByID(ctx context.Context, id string) (*models.MotoSeminova, error)
	CreateSeminova(ctx context.Context, rec *models.MotoSeminova) error
	UpdateSeminova(ctx context.Context, id string, rec *models.MotoSeminova) error
	FindDadosInstitucionais(ctx context.Context) (*models.DadosInstitucionais, error)
}

// MediaStore persists a staged file as a media asset and returns its id.
type MediaStore interface {
	CreateMidia(ctx context.Context, alt string, filePath string) (int64, error)
}

type Store interface {
	SeminovaStore
	MediaStore
}

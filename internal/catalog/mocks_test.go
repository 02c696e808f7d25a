package catalog

import (
	"context"
	"io"
	"log/slog"

	"github.com/maltedev/seminovas-importer/internal/fetch"
	"github.com/maltedev/seminovas-importer/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockStore is a spy for the content store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindSeminovaByID(ctx context.Context, id string) (*models.MotoSeminova, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MotoSeminova), args.Error(1)
}

func (m *MockStore) CreateSeminova(ctx context.Context, rec *models.MotoSeminova) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) UpdateSeminova(ctx context.Context, id string, rec *models.MotoSeminova) error {
	args := m.Called(ctx, id, rec)
	return args.Error(0)
}

func (m *MockStore) FindDadosInstitucionais(ctx context.Context) (*models.DadosInstitucionais, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DadosInstitucionais), args.Error(1)
}

func (m *MockStore) CreateMidia(ctx context.Context, alt string, filePath string) (int64, error) {
	args := m.Called(ctx, alt, filePath)
	return args.Get(0).(int64), args.Error(1)
}

type MockBinaryFetcher struct {
	mock.Mock
}

func (m *MockBinaryFetcher) FetchBinary(ctx context.Context, url string) (*fetch.Binary, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fetch.Binary), args.Error(1)
}

type MockPageFetcher struct {
	mock.Mock
}

func (m *MockPageFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jpeg() *fetch.Binary {
	return &fetch.Binary{Body: []byte{0xff, 0xd8, 0xff}, ContentType: "image/jpeg"}
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }

// memStore keeps records in memory, keyed by id.
type memStore struct {
	seminovas map[string]models.MotoSeminova
	midias    map[int64]string
	dados     *models.DadosInstitucionais
	creates   int
	updates   int
}

func newMemStore() *memStore {
	return &memStore{
		seminovas: make(map[string]models.MotoSeminova),
		midias:    make(map[int64]string),
		dados: &models.DadosInstitucionais{
			Concessionarias: []models.Concessionaria{{Nome: "ByMoto Centro"}},
		},
	}
}

func (s *memStore) FindSeminovaByID(_ context.Context, id string) (*models.MotoSeminova, error) {
	rec, ok := s.seminovas[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *memStore) CreateSeminova(_ context.Context, rec *models.MotoSeminova) error {
	s.creates++
	s.seminovas[rec.ID] = *rec
	return nil
}

func (s *memStore) UpdateSeminova(_ context.Context, id string, rec *models.MotoSeminova) error {
	s.updates++
	s.seminovas[id] = *rec
	return nil
}

func (s *memStore) FindDadosInstitucionais(_ context.Context) (*models.DadosInstitucionais, error) {
	return s.dados, nil
}

func (s *memStore) CreateMidia(_ context.Context, alt string, _ string) (int64, error) {
	id := int64(len(s.midias) + 1)
	s.midias[id] = alt
	return id, nil
}

package novas

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/maltedev/seminovas-importer/internal/metrics"
	"github.com/maltedev/seminovas-importer/internal/models"
)

// Store is the content store slice used for new motorcycles.
// FindMotoNovaByID returns nil, nil when absent.
type Store interface {
	FindMotoNovaByID(ctx context.Context, id string) (*models.MotoNova, error)
	CreateMotoNova(ctx context.Context, rec *models.MotoNova) error
	UpdateMotoNova(ctx context.Context, id string, rec *models.MotoNova) error
}

const marcador2025 = "-2025"

type variacao struct {
	id   string
	nome string
}

// variacoesPadrao lists the versions of motos whose financial file has no models.
var variacoesPadrao = map[string][]variacao{
	"cb-1000r":               {{id: "standard", nome: "Standard"}},
	"cb-1000r-black-edition": {{id: "black-edition", nome: "Black Edition"}},
	"cbr-1000rr-r-fireblade": {
		{id: "sp", nome: "SP"},
		{id: "30th-anniversary-edition-2024", nome: "30th Anniversary Edition 2024"},
	},
	"crf-1100l-africa-twin":                  {{id: "mt", nome: "MT"}, {id: "dct", nome: "DCT"}},
	"crf-1100l-africa-twin-adventure-sports": {{id: "mt", nome: "MT"}, {id: "dct", nome: "DCT"}},
	"crf-250r":                               {{id: "r", nome: "R"}, {id: "rx", nome: "RX"}},
	"crf-450r":                               {{id: "r", nome: "R"}, {id: "rx", nome: "RX"}},
	"gl-1800-gold-wing-tour":                 {{id: "standard", nome: "Standard"}},
	"x-adv":                                  {{id: "x-adv", nome: "X-ADV"}},
}

type Importer struct {
	store  Store
	logger *slog.Logger
}

func NewImporter(store Store, logger *slog.Logger) *Importer {
	return &Importer{
		store:  store,
		logger: logger.With("component", "novas"),
	}
}

// Import upserts one MotoNova per financial data file under root. The CNH
// set is read once before the loop. Store errors abort the run.
func (i *Importer) Import(ctx context.Context, root string) (models.ImportTally, error) {
	cnh := LoadMotosComCNH(root, i.logger)

	arquivos, err := LoadArquivosFinanceiros(root)
	if err != nil {
		return models.ImportTally{}, err
	}

	tally := models.ImportTally{Total: len(arquivos)}
	i.logger.Info("starting import", "total", tally.Total, "motos_com_cnh", len(cnh))

	for _, arquivo := range arquivos {
		result, err := i.upsert(ctx, arquivo, cnh)
		if err != nil {
			return tally, err
		}
		tally.Record(result)
		metrics.ImportsTotal.WithLabelValues(metrics.SourceNovas, string(result)).Inc()
		i.logger.Info("moto nova imported", "id", arquivo.ID, "result", result)
	}

	return tally, nil
}

func (i *Importer) upsert(ctx context.Context, arquivo ArquivoFinanceiro, cnh map[string]struct{}) (models.ImportResult, error) {
	rec, ok := BuildMotoNova(arquivo, cnh)
	if !ok {
		i.logger.Warn("moto nova skipped: no models and no known variations", "id", arquivo.ID)
		return models.ResultSkipped, nil
	}

	existing, err := i.store.FindMotoNovaByID(ctx, rec.ID)
	if err != nil {
		return "", fmt.Errorf("failed to find moto nova %s: %w", rec.ID, err)
	}

	if existing != nil {
		if err := i.store.UpdateMotoNova(ctx, existing.ID, rec); err != nil {
			return "", fmt.Errorf("failed to update moto nova %s: %w", rec.ID, err)
		}
		return models.ResultUpdated, nil
	}

	if err := i.store.CreateMotoNova(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to create moto nova %s: %w", rec.ID, err)
	}
	return models.ResultCreated, nil
}

// BuildMotoNova maps a financial file to a catalog record. It reports false
// when the file has no models and the id has no fallback variations.
func BuildMotoNova(arquivo ArquivoFinanceiro, cnh map[string]struct{}) (*models.MotoNova, bool) {
	if strings.TrimSpace(arquivo.ID) == "" {
		return nil, false
	}

	modelos := arquivo.Modelos
	if len(modelos) == 0 {
		variacoes := variacoesPadrao[arquivo.ID]
		if len(variacoes) == 0 {
			return nil, false
		}
		modelos = make([]ModeloArquivo, 0, len(variacoes))
		for _, v := range variacoes {
			modelos = append(modelos, ModeloArquivo{ID: v.id, Nome: v.nome})
		}
	}

	rec := &models.MotoNova{
		ID:      arquivo.ID,
		Nome:    GerarNomeAPartirDoID(arquivo.ID),
		Ativo:   true,
		Modelos: make([]models.ModeloMotoNova, 0, len(modelos)),
	}
	for _, m := range modelos {
		rec.Modelos = append(rec.Modelos, buildModelo(arquivo.ID, m, cnh))
	}
	return rec, true
}

func buildModelo(motoID string, m ModeloArquivo, cnh map[string]struct{}) models.ModeloMotoNova {
	is2025 := strings.Contains(motoID, marcador2025)

	_, temCNH := cnh[motoID]
	exibirOferta := is2025
	if !is2025 && m.ExibirOferta != nil {
		exibirOferta = *m.ExibirOferta
	}

	var vantagens []string
	if len(m.VantagensOferta) > 0 {
		vantagens = m.VantagensOferta
	}

	return models.ModeloMotoNova{
		Nome: FormatarNomeModelo(m.Nome, m.ID),
		DadosFinanceiros: models.DadosFinanceiros{
			Preco:           normalizarPreco(m.Preco),
			Parcelamento:    []models.Parcela{},
			PrecoOferta:     m.PrecoOferta,
			VantagensOferta: vantagens,
		},
		ExibirMotosNovas: !is2025,
		ExibirConsorcio:  !is2025 && temCNH,
		ExibirOferta:     exibirOferta,
	}
}

func normalizarPreco(preco *float64) float64 {
	if preco == nil || math.IsNaN(*preco) {
		return 0
	}
	return *preco
}

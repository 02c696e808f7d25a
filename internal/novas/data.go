package novas

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/maltedev/seminovas-importer/internal/models"
	"github.com/titanous/json5"
)

const (
	dadosFinanceirosSuffix = ".dados-financeiros.json5"
	dadosFinanceirosDir    = "motos-novas/dados-financeiros"
	dadosCNHDir            = "motos-novas/dados-cnh"
)

var cnhSuffixPattern = regexp.MustCompile(`\.(dados-)?cnh\.(ts|json5?)$`)

// ArquivoFinanceiro is one hand-edited financial data file.
type ArquivoFinanceiro struct {
	ID      string          `json:"id"`
	Modelos []ModeloArquivo `json:"modelos"`
}

type ModeloArquivo struct {
	ID              string           `json:"id"`
	Nome            string           `json:"nome,omitempty"`
	Preco           *float64         `json:"preco"`
	Parcelamento    []models.Parcela `json:"parcelamento,omitempty"`
	PrecoOferta     *float64         `json:"precoOferta,omitempty"`
	VantagensOferta []string         `json:"vantagensOferta,omitempty"`
	ExibirOferta    *bool            `json:"exibirOferta,omitempty"`
}

// LoadArquivosFinanceiros reads every *.dados-financeiros.json5 file under
// root in file name order. Any unreadable or malformed file is an error.
func LoadArquivosFinanceiros(root string) ([]ArquivoFinanceiro, error) {
	dir := filepath.Join(root, filepath.FromSlash(dadosFinanceirosDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	arquivos := make([]ArquivoFinanceiro, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), dadosFinanceirosSuffix) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var arquivo ArquivoFinanceiro
		if err := json5.Unmarshal(data, &arquivo); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if arquivo.ID == "" {
			arquivo.ID = strings.TrimSuffix(entry.Name(), dadosFinanceirosSuffix)
		}
		arquivos = append(arquivos, arquivo)
	}

	return arquivos, nil
}

// LoadMotosComCNH lists the moto ids that have a CNH data file. A missing or
// unreadable directory yields an empty set.
func LoadMotosComCNH(root string, logger *slog.Logger) map[string]struct{} {
	ids := make(map[string]struct{})

	dir := filepath.Join(root, filepath.FromSlash(dadosCNHDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("could not read dados-cnh directory", "dir", dir, "error", err)
		return ids
	}

	for _, entry := range entries {
		if entry.IsDir() || !cnhSuffixPattern.MatchString(entry.Name()) {
			continue
		}
		id := cnhSuffixPattern.ReplaceAllString(entry.Name(), "")
		if strings.TrimSpace(id) != "" {
			ids[id] = struct{}{}
		}
	}

	return ids
}

package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/maltedev/seminovas-importer/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	PlacaPadrao = "SEM-0001"
	CorPadrao   = "Preto"
	MarcaPadrao = "Honda"
)

var (
	precoCharsPattern    = regexp.MustCompile(`[^0-9,.]`)
	leadingNumberPattern = regexp.MustCompile(`^(\d+(?:\.\d*)?|\.\d+)`)
	slugSeparatorPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

type marca struct {
	needle string
	nome   string
}

// marcas is checked in order.
var marcas = []marca{
	{needle: "honda", nome: "Honda"},
	{needle: "yamaha", nome: "Yamaha"},
	{needle: "bmw", nome: "BMW"},
	{needle: "kawasaki", nome: "Kawasaki"},
	{needle: "suzuki", nome: "Suzuki"},
	{needle: "royal enfield", nome: "Royal Enfield"},
}

var (
	caracteristicasPadrao = []string{"Baixa manutenção", "Econômica"}
	adicionaisPadrao      = []string{"Sua moto usada na troca", "Revisada"}
)

// ParsePreco reads a Brazilian formatted price ("R$ 25.000,00"). Dots are
// thousands separators and the comma is the decimal mark. Trailing garbage
// after the leading number is ignored.
func ParsePreco(text string) *float64 {
	cleaned := precoCharsPattern.ReplaceAllString(text, "")
	if cleaned == "" {
		return nil
	}

	normalized := strings.ReplaceAll(cleaned, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")

	lead := leadingNumberPattern.FindString(normalized)
	if lead == "" {
		return nil
	}
	value, err := strconv.ParseFloat(lead, 64)
	if err != nil {
		return nil
	}
	return &value
}

func InferirMarca(name string) string {
	lower := strings.ToLower(name)
	for _, m := range marcas {
		if strings.Contains(lower, m.needle) {
			return m.nome
		}
	}
	return MarcaPadrao
}

// ConstruirSlug derives the durable record id from name, color and model year.
func ConstruirSlug(listing *models.ScrapedListing) string {
	parts := []string{listing.Name}
	if listing.Cor != nil && strings.TrimSpace(*listing.Cor) != "" {
		parts = append(parts, *listing.Cor)
	}
	if listing.AnoModelo != nil {
		parts = append(parts, strconv.Itoa(*listing.AnoModelo))
	}
	return Slugify(strings.Join(parts, " "))
}

// Slugify strips diacritics, lowercases and joins alphanumeric runs with "-".
func Slugify(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, value)
	if err != nil {
		stripped = value
	}
	slug := slugSeparatorPattern.ReplaceAllString(strings.ToLower(stripped), "-")
	return strings.Trim(slug, "-")
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatarQuilometragem prefers the text the mileage was read from and
// falls back to pt-BR grouping of the number ("15.000").
func FormatarQuilometragem(listing *models.ScrapedListing) string {
	if listing.QuilometragemTexto != nil && *listing.QuilometragemTexto != "" {
		return *listing.QuilometragemTexto
	}
	if listing.QuilometragemNumero != nil {
		return ptBR.Sprint(number.Decimal(*listing.QuilometragemNumero, number.MaxFractionDigits(3)))
	}
	return "0"
}

func formatarCor(cor *string) string {
	if cor == nil {
		return CorPadrao
	}
	trimmed := strings.TrimSpace(*cor)
	if trimmed == "" {
		return CorPadrao
	}
	r, size := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToUpper(r)) + trimmed[size:]
}

// PlacaFicticia is the placeholder plate for the n-th batch entry (0-based).
func PlacaFicticia(index int) string {
	return fmt.Sprintf("SEM-%04d", index+1)
}

// ResolverLocal returns the first configured branch name or LocalPadrao.
func ResolverLocal(dados *models.DadosInstitucionais) string {
	if dados == nil || len(dados.Concessionarias) == 0 {
		return models.LocalPadrao
	}
	if nome := dados.Concessionarias[0].Nome; strings.TrimSpace(nome) != "" {
		return nome
	}
	return models.LocalPadrao
}

type RecordOptions struct {
	Placa string
	Local string
}

// BuildSeminova builds the persisted record without images. It returns
// ErrPrecoOuAno when the price is not positive or a year is missing.
func BuildSeminova(listing *models.ScrapedListing, opts RecordOptions) (*models.MotoSeminova, error) {
	preco := ParsePreco(listing.PriceText)
	if preco == nil || *preco <= 0 {
		return nil, ErrPrecoOuAno
	}
	if listing.AnoFabricacao == nil || listing.AnoModelo == nil {
		return nil, ErrPrecoOuAno
	}

	placa := opts.Placa
	if placa == "" {
		placa = PlacaPadrao
	}
	local := opts.Local
	if local == "" {
		local = models.LocalPadrao
	}

	return &models.MotoSeminova{
		ID:              ConstruirSlug(listing),
		Ativo:           true,
		Placa:           placa,
		Marca:           InferirMarca(listing.Name),
		Nome:            listing.Name,
		AnoFabricacao:   *listing.AnoFabricacao,
		AnoModelo:       *listing.AnoModelo,
		Quilometragem:   FormatarQuilometragem(listing),
		Combustivel:     models.CombustivelFlex,
		Cor:             formatarCor(listing.Cor),
		Categoria:       models.CategoriaCity,
		Preco:           *preco,
		Local:           local,
		Galeria:         []models.GaleriaItem{},
		Caracteristicas: append([]string(nil), caracteristicasPadrao...),
		Adicionais:      append([]string(nil), adicionaisPadrao...),
	}, nil
}

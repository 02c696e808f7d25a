package models

// ScrapedImage is one candidate image found on a detail page, in page order.
type ScrapedImage struct {
	URL string  `json:"url"`
	Alt *string `json:"alt"`
}

// ScrapedListing is the transient record produced by the detail parser.
// Numeric fields are nil when extraction failed; they are never NaN.
type ScrapedListing struct {
	Name                string         `json:"name"`
	PriceText           string         `json:"priceText"`
	YearText            string         `json:"yearText"`
	MileageText         string         `json:"mileageText"`
	LocationText        *string        `json:"locationText"`
	AnoFabricacao       *int           `json:"anoFabricacao"`
	AnoModelo           *int           `json:"anoModelo"`
	QuilometragemNumero *float64       `json:"quilometragemNumero"`
	QuilometragemTexto  *string        `json:"quilometragemTexto"`
	Cor                 *string        `json:"cor"`
	Images              []ScrapedImage `json:"images"`
}

// ListingItem is one entry of a search/listing page.
type ListingItem struct {
	Name      string `json:"name"`
	DetailURL string `json:"detailUrl"`
}

type Combustivel string

const (
	CombustivelGasolina Combustivel = "Gasolina"
	CombustivelAlcool   Combustivel = "Álcool"
	CombustivelFlex     Combustivel = "Flex"
	CombustivelEletrico Combustivel = "Elétrico"
)

type Categoria string

const (
	CategoriaCity      Categoria = "City"
	CategoriaScooter   Categoria = "Scooter"
	CategoriaNaked     Categoria = "Naked"
	CategoriaTrail     Categoria = "Trail"
	CategoriaBigTrail  Categoria = "Big Trail"
	CategoriaCrossover Categoria = "Crossover"
	CategoriaOffRoad   Categoria = "Off Road"
	CategoriaSport     Categoria = "Sport"
	CategoriaTouring   Categoria = "Touring"
)

// GaleriaItem references a stored media asset from a seminova gallery.
type GaleriaItem struct {
	Imagem int64  `json:"imagem"`
	Alt    string `json:"alt"`
}

// MotoSeminova is the persisted catalog record for a used motorcycle.
// ID is the slug derived from name, color and model year.
type MotoSeminova struct {
	ID              string        `json:"id"`
	Ativo           bool          `json:"ativo"`
	Placa           string        `json:"placa"`
	Marca           string        `json:"marca"`
	Nome            string        `json:"nome"`
	AnoFabricacao   int           `json:"anoFabricacao"`
	AnoModelo       int           `json:"anoModelo"`
	Quilometragem   string        `json:"quilometragem"`
	Combustivel     Combustivel   `json:"combustivel"`
	Cor             string        `json:"cor"`
	Categoria       Categoria     `json:"categoria"`
	Preco           float64       `json:"preco"`
	Local           string        `json:"local"`
	Imagem          *int64        `json:"imagem,omitempty"`
	Galeria         []GaleriaItem `json:"galeria"`
	Caracteristicas []string      `json:"caracteristicas"`
	Adicionais      []string      `json:"adicionais"`
}

// Midia is a stored binary asset with a required alt text.
type Midia struct {
	ID       int64  `json:"id"`
	Alt      string `json:"alt"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}

package models

type Parcela struct {
	QtdParcelas  int     `json:"qtdParcelas"`
	PrecoParcela float64 `json:"precoParcela"`
	PrecoTotal   float64 `json:"precoTotal"`
}

type DadosFinanceiros struct {
	Preco           float64   `json:"preco"`
	Parcelamento    []Parcela `json:"parcelamento"`
	PrecoOferta     *float64  `json:"precoOferta,omitempty"`
	VantagensOferta []string  `json:"vantagensOferta,omitempty"`
}

type ModeloMotoNova struct {
	Nome             string           `json:"nome"`
	DadosFinanceiros DadosFinanceiros `json:"dadosFinanceiros"`
	ExibirMotosNovas bool             `json:"exibirMotosNovas"`
	ExibirConsorcio  bool             `json:"exibirConsorcio"`
	ExibirOferta     bool             `json:"exibirOferta"`
}

// MotoNova is the persisted catalog record for a new motorcycle, keyed by its data-file id.
type MotoNova struct {
	ID      string           `json:"id"`
	Nome    string           `json:"nome"`
	Ativo   bool             `json:"ativo"`
	Modelos []ModeloMotoNova `json:"modelos"`
}

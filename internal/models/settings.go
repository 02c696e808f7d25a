package models

// GlobalDadosInstitucionais is the slug of the settings global holding branch data.
const GlobalDadosInstitucionais = "dados-institucionais"

// LocalPadrao is used when no branch is configured.
const LocalPadrao = "Sem Local"

type Concessionaria struct {
	Nome     string `json:"nome"`
	Endereco any    `json:"endereco,omitempty"`
}

type DadosInstitucionais struct {
	Concessionarias []Concessionaria `json:"concessionarias"`
}

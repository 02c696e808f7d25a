package novas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGerarNomeAPartirDoID(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{id: "x-adv", expected: "X-ADV"},
		{id: "cb-1000r", expected: "CB 1000R"},
		{id: "cbr-1000rr-r-fireblade", expected: "CBR 1000RR R Fireblade"},
		{id: "crf-1100l-africa-twin", expected: "CRF 1100L Africa Twin"},
		{id: "biz-125", expected: "Biz 125"},
		{id: "pop-110i", expected: "Pop 110I"},
		{id: "nxr-160-bros", expected: "NXR 160 Bros"},
		{id: "adv-160", expected: "ADV 160"},
		{id: "sh-150i-dlx", expected: "SH 150I Dlx"},
		{id: "elite-125", expected: "Elite 125"},
		{id: "gl-1800-gold-wing-tour", expected: "GL 1800 Gold Wing Tour"},
		{id: "nc-750x-2025", expected: "NC 750X 2025"},
		{id: "---", expected: "---"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, GerarNomeAPartirDoID(tt.id))
		})
	}
}

func TestFormatarNomeModelo(t *testing.T) {
	tests := []struct {
		name     string
		nome     string
		id       string
		expected string
	}{
		{name: "short token becomes acronym", nome: "sp", id: "sp", expected: "SP"},
		{name: "falls back to id", nome: "  ", id: "standard", expected: "Standard"},
		{name: "already upper kept", nome: "ABS CBS", id: "x", expected: "ABS CBS"},
		{name: "mixed words", nome: "black edition", id: "x", expected: "Black Edition"},
		{name: "biz is not an acronym", nome: "biz es", id: "x", expected: "Biz ES"},
		{name: "ordinal and year", nome: "30th anniversary edition 2024", id: "x", expected: "30th Anniversary Edition 2024"},
		{name: "punctuation ignored for length", nome: "x-adv", id: "x", expected: "X-adv"},
		{name: "empty name and id", nome: "", id: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatarNomeModelo(tt.nome, tt.id))
		})
	}
}

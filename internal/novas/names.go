package novas

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// GerarNomeAPartirDoID turns a data file id into a display name:
// "crf-1100l-africa-twin" becomes "CRF 1100L Africa Twin".
func GerarNomeAPartirDoID(id string) string {
	if id == "x-adv" {
		return "X-ADV"
	}

	parts := strings.FieldsFunc(id, func(r rune) bool { return r == '-' })
	if len(parts) == 0 {
		return strings.ToUpper(id)
	}

	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = formatarParteNomeMoto(part, i == 0)
	}
	return strings.Join(out, " ")
}

func formatarParteNomeMoto(part string, prefixo bool) string {
	letters := filterRunes(part, isASCIILetter)
	digits := filterRunes(part, isASCIIDigit)
	lower := strings.ToLower(letters)

	if prefixo && digits == "" && (len(letters) == 2 || (len(letters) == 3 && !isBizOuPop(lower))) {
		return strings.ToUpper(part)
	}
	if !prefixo && digits == "" && lower == "adv" {
		return "ADV"
	}

	if last := strings.LastIndexFunc(part, isASCIIDigit); last >= 0 && last < len(part)-1 {
		return part[:last+1] + strings.ToUpper(part[last+1:])
	}

	return capitalize(part)
}

// FormatarNomeModelo formats a model name, falling back to its id. Tokens of
// up to three alphanumerics become acronyms ("sp" -> "SP"), except Biz and Pop.
func FormatarNomeModelo(nome string, id string) string {
	base := nome
	if strings.TrimSpace(base) == "" {
		base = id
	}

	parts := strings.Fields(base)
	if len(parts) == 0 {
		return strings.ToUpper(base)
	}

	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = formatarParteNomeModelo(part)
	}
	return strings.Join(out, " ")
}

func formatarParteNomeModelo(part string) string {
	alnum := filterRunes(part, func(r rune) bool { return isASCIILetter(r) || isASCIIDigit(r) })
	if alnum != "" && len(alnum) <= 3 && !isBizOuPop(strings.ToLower(alnum)) {
		return strings.ToUpper(part)
	}
	if part == strings.ToUpper(part) {
		return part
	}
	return capitalize(part)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func isBizOuPop(lower string) bool {
	return lower == "biz" || lower == "pop"
}

func filterRunes(s string, keep func(rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

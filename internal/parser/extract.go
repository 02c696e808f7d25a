package parser

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Years holds manufacture and model year. Both are nil when no pattern matched.
type Years struct {
	AnoFabricacao *int
	AnoModelo     *int
}

// Mileage keeps the parsed value next to the text it came from, because
// "15.000" cannot always be reproduced from 15000.
type Mileage struct {
	Numero *float64
	Texto  *string
}

// Image is one candidate image in page order.
type Image struct {
	URL string
	Alt *string
}

var (
	fourDigitYearsPattern = regexp.MustCompile(`(\d{4})\s*/\s*(\d{4})`)
	twoDigitYearsPattern  = regexp.MustCompile(`(\d{2})\s*/\s*(\d{2})`)

	mileagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Km\s*[:\-]?\s*(\d{1,3}(?:\.\d{3})+|\d+)`),
		regexp.MustCompile(`(?i)(\d{1,3}(?:\.\d{3})+|\d+)\s*(?:km)?\b`),
	}

	colorLabelPattern = regexp.MustCompile(`(?i)Cor\s*[:\-]?\s*([A-Za-zÀ-ÿ ]{3,30})`)
)

// knownColors is scanned in order, first substring hit wins.
var knownColors = []string{
	"preta",
	"preto",
	"branca",
	"branco",
	"vermelha",
	"vermelho",
	"prata",
	"cinza",
	"azul",
	"verde",
	"amarela",
	"amarelo",
	"laranja",
	"marrom",
	"grafite",
	"rosa",
}

var imageDenylist = []string{
	"logo",
	"icon",
	"instagram",
	"facebook",
	"youtube",
	"/themes/theme-by-moto-honda/",
}

type yearsMatcher func(text string) (Years, bool)

var yearsMatchers = []yearsMatcher{
	matchFourDigitYears,
	matchTwoDigitYears,
}

// ExtractYearsFromText reads "YYYY/YYYY" or, failing that, "YY/YY" with
// century inference (>= 90 is 19xx, otherwise 20xx).
func ExtractYearsFromText(text string) Years {
	for _, match := range yearsMatchers {
		if years, ok := match(text); ok {
			return years
		}
	}
	return Years{}
}

func matchFourDigitYears(text string) (Years, bool) {
	m := fourDigitYearsPattern.FindStringSubmatch(text)
	if m == nil {
		return Years{}, false
	}
	fab, err1 := strconv.Atoi(m[1])
	mod, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return Years{}, true
	}
	return Years{AnoFabricacao: &fab, AnoModelo: &mod}, true
}

func matchTwoDigitYears(text string) (Years, bool) {
	m := twoDigitYearsPattern.FindStringSubmatch(text)
	if m == nil {
		return Years{}, false
	}
	fab, err1 := strconv.Atoi(m[1])
	mod, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return Years{}, true
	}
	fab = expandTwoDigitYear(fab)
	mod = expandTwoDigitYear(mod)
	return Years{AnoFabricacao: &fab, AnoModelo: &mod}, true
}

func expandTwoDigitYear(year int) int {
	if year >= 90 {
		return 1900 + year
	}
	return 2000 + year
}

// ExtractMileageFromText tries a "Km"-labelled number first and then any
// number optionally followed by "km". Dots are thousands separators.
func ExtractMileageFromText(text string) Mileage {
	var raw string
	for _, pattern := range mileagePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			raw = m[1]
			break
		}
	}
	if raw == "" {
		return Mileage{}
	}

	texto := raw
	normalized := strings.ReplaceAll(raw, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return Mileage{Texto: &texto}
	}
	return Mileage{Numero: &value, Texto: &texto}
}

// ExtractColorFromText returns a lowercase color name or nil.
func ExtractColorFromText(text string) *string {
	if m := colorLabelPattern.FindStringSubmatch(text); m != nil {
		if color := strings.TrimSpace(m[1]); color != "" {
			color = strings.ToLower(color)
			return &color
		}
	}

	lower := strings.ToLower(text)
	for _, color := range knownColors {
		if strings.Contains(lower, color) {
			c := color
			return &c
		}
	}
	return nil
}

// ExtractImagesFromHTML lists every <img src> of the document in order,
// resolved against baseURL, minus logos, icons, social badges, theme assets and SVGs.
func ExtractImagesFromHTML(html string, baseURL string) []Image {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return extractImages(doc.Selection, baseURL)
}

func extractImages(root *goquery.Selection, baseURL string) []Image {
	images := make([]Image, 0)
	root.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" || isExcludedImage(src) {
			return
		}
		// a relative src can pick up a denied word from the base path
		resolved := ResolveURL(src, baseURL)
		if isExcludedImage(resolved) {
			return
		}

		img := Image{URL: resolved}
		if alt, ok := s.Attr("alt"); ok && alt != "" {
			img.Alt = &alt
		}
		images = append(images, img)
	})
	return images
}

func isExcludedImage(src string) bool {
	lower := strings.ToLower(src)
	for _, needle := range imageDenylist {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return strings.HasSuffix(lower, ".svg") || strings.Contains(lower, ".svg?")
}

// ResolveURL resolves ref against base; ref is returned unchanged if either does not parse.
func ResolveURL(ref string, base string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maltedev/seminovas-importer/internal/models"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WriteListings writes listings as an indented JSON array.
func WriteListings(w io.Writer, listings []models.ScrapedListing) error {
	if listings == nil {
		listings = []models.ScrapedListing{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(listings); err != nil {
		return fmt.Errorf("failed to encode listings: %w", err)
	}
	return nil
}

// SaveListings writes the file through a temp file and a rename.
func SaveListings(filename string, listings []models.ScrapedListing) error {
	var buf bytes.Buffer
	if err := WriteListings(&buf, listings); err != nil {
		return err
	}

	tmpFile := filename + ".tmp"
	if err := os.WriteFile(tmpFile, buf.Bytes(), 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, filename)
}

// LoadListings reads a crawl file. UTF-16 files with a byte-order mark are
// accepted, and anything before the first '[' or '{' is ignored, so output
// redirected from a shell that prepends a banner still loads.
func LoadListings(filename string) ([]models.ScrapedListing, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return DecodeListings(data)
}

func DecodeListings(data []byte) ([]models.ScrapedListing, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	if start := jsonStart(text); start > 0 {
		text = text[start:]
	}

	var listings []models.ScrapedListing
	if err := json.Unmarshal([]byte(text), &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

func decodeText(data []byte) (string, error) {
	if hasUTF16BOM(data) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		decoded, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return "", fmt.Errorf("failed to decode UTF-16: %w", err)
		}
		data = decoded
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

func hasUTF16BOM(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return (data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF)
}

func jsonStart(text string) int {
	arr := strings.IndexByte(text, '[')
	obj := strings.IndexByte(text, '{')
	switch {
	case arr == -1:
		return obj
	case obj == -1:
		return arr
	default:
		return min(arr, obj)
	}
}

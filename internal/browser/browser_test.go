package browser

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/maltedev/seminovas-importer/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.True(t, opts.Headless)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, "pt-BR", opts.Locale)
	assert.Equal(t, "America/Sao_Paulo", opts.TimezoneID)
	assert.Contains(t, opts.AcceptLanguage, "pt-BR")
}

func TestCloseWithoutResources(t *testing.T) {
	assert.NoError(t, (&Browser{}).Close())
}

// Needs installed playwright browsers.
func TestFetchHTML(t *testing.T) {
	if os.Getenv("PLAYWRIGHT_TESTS") == "" {
		t.Skip("PLAYWRIGHT_TESTS not set")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/seminovos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="cards"></div><script>
			document.getElementById("cards").innerHTML = '<a href="/seminovo/cg-160/"><h3>CG 160 Fan</h3></a>';
		</script></body></html>`))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	b, err := New(DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer b.Close()

	html, err := b.FetchHTML(context.Background(), server.URL+"/seminovos")
	require.NoError(t, err)
	assert.Contains(t, html, "CG 160 Fan")

	_, err = b.FetchHTML(context.Background(), server.URL+"/missing")
	assert.ErrorIs(t, err, fetch.ErrSourceUnavailable)
}

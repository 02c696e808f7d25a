package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportsTotalCountsPerLabel(t *testing.T) {
	before := testutil.ToFloat64(ImportsTotal.WithLabelValues(SourceBatch, "created"))

	ImportsTotal.WithLabelValues(SourceBatch, "created").Inc()
	ImportsTotal.WithLabelValues(SourceBatch, "created").Inc()

	assert.Equal(t, before+2, testutil.ToFloat64(ImportsTotal.WithLabelValues(SourceBatch, "created")))
}

func TestHandlerExposesRegisteredCollectors(t *testing.T) {
	Register()
	Register()

	AssetsTotal.WithLabelValues("stored").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "catalog_assets_total")
}

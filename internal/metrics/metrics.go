package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SourceHTTP  = "http"
	SourceBatch = "batch"
	SourceNovas = "novas"
)

var (
	ImportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_imports_total",
			Help: "Imports by entry point and outcome",
		},
		[]string{"source", "result"},
	)

	ImportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_import_duration_seconds",
			Help:    "Time spent importing a single listing",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"source"},
	)

	AssetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_assets_total",
			Help: "Image downloads by outcome (stored, rejected, failed)",
		},
		[]string{"result"},
	)

	OutboxRelayedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_outbox_relayed_total",
			Help: "Outbox events published to Redis",
		},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ImportsTotal, ImportDuration, AssetsTotal, OutboxRelayedTotal)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

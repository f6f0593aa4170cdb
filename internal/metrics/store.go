package metrics

import "github.com/prometheus/client_golang/prometheus"

// Document store and pipeline Prometheus metrics.
var (
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "store_operations_total",
			Help:      "Document store operations by mode and outcome",
		},
		[]string{"op", "mode", "status"}, // mode: "backend" / "fallback"
	)

	StoreFallbackDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ragdex",
			Name:      "store_fallback_documents",
			Help:      "Documents held in the in-memory fallback list",
		},
	)

	StoreBackendReady = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ragdex",
			Name:      "store_backend_ready",
			Help:      "1 when the remote vector index initialised at startup, 0 in fallback mode",
		},
		[]string{"driver"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragdex",
			Name:      "backend_request_duration_seconds",
			Help:      "Vector index backend request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"driver", "op", "status"},
	)

	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "pipeline_runs_total",
			Help:      "Retrieval pipeline runs by outcome",
		},
		[]string{"outcome"}, // "answered" / "apology" / "error"
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers document store, backend and pipeline metrics.
// Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreOperationsTotal)
	prometheus.MustRegister(StoreFallbackDocuments)
	prometheus.MustRegister(StoreBackendReady)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(PipelineRunsTotal)
	storeMetricsRegistered = true
}

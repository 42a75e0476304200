package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion Prometheus metrics.
var (
	IngestChunksStoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ragserver",
			Name:      "ingest_chunks_stored_total",
			Help:      "Total number of chunks stored during ingestion",
		},
	)

	IngestChunksSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ragserver",
			Name:      "ingest_chunks_skipped_total",
			Help:      "Total number of chunks skipped during ingestion",
		},
	)

	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragserver",
			Name:      "ingest_documents_total",
			Help:      "Total number of document ingestions",
		},
		[]string{"status"},
	)
)

var ingestMetricsRegistered bool

// RegisterIngestMetrics registers Prometheus ingestion metrics. Must be called once from main.
func RegisterIngestMetrics() {
	if ingestMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestChunksStoredTotal)
	prometheus.MustRegister(IngestChunksSkippedTotal)
	prometheus.MustRegister(IngestDocumentsTotal)
	ingestMetricsRegistered = true
}

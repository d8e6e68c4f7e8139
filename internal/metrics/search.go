package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relevance",
			Name:      "searches_total",
			Help:      "Total number of searches",
		},
		[]string{"status"}, // "ok" / "error"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "relevance",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchLegTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relevance",
			Name:      "search_leg_total",
			Help:      "Per-leg retrieval outcomes",
		},
		[]string{"leg", "status"}, // leg: "keyword"/"semantic", status: "ok"/"degraded"
	)

	TelemetryDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "relevance",
			Name:      "telemetry_drops_total",
			Help:      "Query metrics records dropped because the sink was unavailable",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchLegTotal)
	prometheus.MustRegister(TelemetryDropsTotal)
	searchMetricsRegistered = true
}

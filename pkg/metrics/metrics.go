package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream source labels.
const (
	SourceCirrus = "cirrus"
	SourceOracle = "oracle"
	SourceAuth   = "auth"
)

var (
	// UpstreamRequestsTotal counts requests issued to upstream services,
	// partitioned by source and HTTP status class.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_dashboard_upstream_requests_total",
			Help: "Requests issued to upstream services.",
		},
		[]string{"source", "status"},
	)

	// UpstreamFailuresTotal counts upstream fetches that degraded to an
	// empty or stale input set.
	UpstreamFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_dashboard_upstream_failures_total",
			Help: "Upstream fetches degraded to empty or stale inputs.",
		},
		[]string{"source"},
	)

	// ValuationDurationSeconds tracks end-to-end owner valuation latency,
	// fetches included.
	ValuationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asset_dashboard_valuation_duration_seconds",
			Help:    "End-to-end owner valuation latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		UpstreamRequestsTotal,
		UpstreamFailuresTotal,
		ValuationDurationSeconds,
	)
}

// NewValuationTimer starts a timer against the valuation histogram.
func NewValuationTimer() *prometheus.Timer {
	return prometheus.NewTimer(ValuationDurationSeconds)
}

// Package metrics holds the Prometheus collectors shared by the API and
// Refresher roles.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================================
// HTTP
// ============================================================================

var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "method", "path"},
)

var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// ============================================================================
// Shared Store (Redis blob + pub/sub)
// ============================================================================

var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Duration of shared-store operations",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"operation"}, // get_rates, set_rates, publish
)

var StoreErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_errors_total",
		Help: "Total number of shared-store errors",
	},
	[]string{"operation"},
)

var NotificationsReceived = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "rates_updated_notifications_total",
		Help: "Total number of rates_updated notifications received by the sync job",
	},
)

// ============================================================================
// Upstream Client
// ============================================================================

var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total number of upstream FetchAll calls by outcome; retries within a call are not counted separately",
	},
	[]string{"status"}, // success, failure
)

var UpstreamFetchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "upstream_fetch_duration_seconds",
		Help:    "Duration of a complete FetchAll call, including retries",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
)

// ============================================================================
// Refresher cycle
// ============================================================================

var RefreshCyclesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "refresh_cycles_total",
		Help: "Total number of refresher cycles by outcome",
	},
	[]string{"outcome"}, // success, failure
)

var RefreshRatesCount = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "refresh_rates_count",
		Help: "Number of rates written by the most recent successful refresh cycle",
	},
)

// ============================================================================
// Snapshot Cache / Derivation Engine
// ============================================================================

var SnapshotSyncsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "snapshot_syncs_total",
		Help: "Total number of snapshot sync attempts by outcome",
	},
	[]string{"outcome"}, // applied, kept_stale, error
)

var SnapshotAgeSeconds = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "snapshot_age_seconds",
		Help: "Seconds since the in-process snapshot was last replaced",
	},
)

var DerivationLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "derivation_lookups_total",
		Help: "Total number of derivation engine lookups by result",
	},
	[]string{"result"}, // identity, direct, cross, service_unavailable, pair_not_found
)

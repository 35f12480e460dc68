// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Poll loop metrics
	WalletsMonitored   prometheus.Gauge
	SignaturesFetched  prometheus.Counter
	SignaturesSkipped  prometheus.Counter
	TokenEventsFound   prometheus.Counter
	WalletPollErrors   prometheus.Counter

	// Alert metrics
	AlertsDispatched prometheus.Counter
	AlertsSuppressed prometheus.Counter
	ChannelFailures  *prometheus.CounterVec

	// Metadata metrics
	ProviderLookups *prometheus.CounterVec

	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec

	// Maintenance metrics
	CleanupDeletions prometheus.Counter
	UptimeSeconds    prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
// Must be called once per process: promauto registers into the default
// registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_sentry"
	}

	return &Metrics{
		WalletsMonitored: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "wallets_monitored",
			Help:      "Number of wallet addresses currently monitored",
		}),
		SignaturesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "signatures_fetched_total",
			Help:      "Total number of transaction signatures fetched",
		}),
		SignaturesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "signatures_skipped_total",
			Help:      "Total number of already-processed signatures skipped",
		}),
		TokenEventsFound: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "token_events_total",
			Help:      "Total number of new token acquisition events classified",
		}),
		WalletPollErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "wallet_poll_errors_total",
			Help:      "Total number of per-wallet poll failures",
		}),
		AlertsDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "dispatched_total",
			Help:      "Total number of alerts dispatched to channels",
		}),
		AlertsSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "suppressed_total",
			Help:      "Total number of alerts suppressed by deduplication",
		}),
		ChannelFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "channel_failures_total",
			Help:      "Total number of failed channel deliveries",
		}, []string{"channel"}),
		ProviderLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "provider_lookups_total",
			Help:      "Total number of metadata provider lookups by outcome",
		}, []string{"provider", "outcome"}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "Solana RPC call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		CleanupDeletions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "cleanup_deletions_total",
			Help:      "Total number of dedup rows removed by retention cleanup",
		}),
		UptimeSeconds: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

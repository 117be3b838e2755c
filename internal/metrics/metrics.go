package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bankapi",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bankapi",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bankapi",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	balanceOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bankapi",
			Subsystem: "accounts",
			Name:      "balance_operations_total",
			Help:      "Deposits and withdrawals by outcome.",
		},
		[]string{"operation", "outcome"},
	)

	occRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bankapi",
			Subsystem: "accounts",
			Name:      "occ_retries_total",
			Help:      "Read-modify-write attempts repeated after a version conflict.",
		},
		[]string{"operation"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		balanceOperations,
		occRetries,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request in flight and returns the func that records its completion.
// path should be the route template so label cardinality stays bounded.
func RequestStarted(method, path string) func(status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(status int) {
		httpInFlight.Dec()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordBalanceOperation counts a deposit or withdrawal. outcome is "ok" or an error kind.
func RecordBalanceOperation(operation, outcome string) {
	balanceOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordConflictRetry counts one retried read-modify-write
func RecordConflictRetry(operation string) {
	occRetries.WithLabelValues(operation).Inc()
}

// Package metrics holds the Prometheus collectors of the web server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speakup"

var (
	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Authorization gate outcomes by decision",
		},
		[]string{"decision"},
	)

	SessionEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_evictions_total",
			Help:      "Requests whose cookie set exceeded the size limit and was evicted",
		},
	)

	DroppedCookieWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_cookie_writes_dropped_total",
			Help:      "Session cookie writes dropped for exceeding the value size limit",
		},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Vendor API calls by vendor and status code",
		},
		[]string{"vendor", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of vendor API calls in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"vendor"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Vendor circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"vendor"},
	)
)

func RecordGateDecision(decision string) {
	GateDecisions.WithLabelValues(decision).Inc()
}

// RecordUpstream records one vendor call. status 0 means the call never got
// a response (transport error or open breaker).
func RecordUpstream(vendor string, status int, started time.Time) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequests.WithLabelValues(vendor, label).Inc()
	UpstreamDuration.WithLabelValues(vendor).Observe(time.Since(started).Seconds())
}

func SetBreakerState(vendor string, state int) {
	BreakerState.WithLabelValues(vendor).Set(float64(state))
}

// Package metrics exposes Prometheus metrics for the engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Latency buckets. Classifier calls are bounded by a 5s timeout; ranking is
// pure in-memory work over tens of profiles.
var (
	classifierLatencyBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0}
	rankLatencyBuckets       = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1}
)

// Metrics holds all Prometheus metrics for the engine service.
type Metrics struct {
	// MessagesScreened counts moderation evaluations by outcome:
	// passed, keyword_blocked, remote_blocked.
	MessagesScreened *prometheus.CounterVec

	// ClassifierRequests counts remote classifier calls by outcome:
	// success, error (errors are absorbed fail-open, but still counted).
	ClassifierRequests *prometheus.CounterVec

	// ClassifierLatency tracks remote classifier call latency.
	ClassifierLatency prometheus.Histogram

	// EscalationFailures counts escalation effect failures left for retry.
	EscalationFailures prometheus.Counter

	// RankRequests counts candidate ranking requests.
	RankRequests prometheus.Counter

	// RankLatency tracks candidate ranking duration.
	RankLatency prometheus.Histogram
}

// New creates and registers all engine metrics against the given registerer.
// Tests pass a fresh prometheus.NewRegistry() to avoid collisions.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesScreened: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_messages_screened_total",
				Help: "Moderation evaluations by outcome",
			},
			[]string{"outcome"},
		),
		ClassifierRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_classifier_requests_total",
				Help: "Remote content classifier calls by outcome",
			},
			[]string{"outcome"},
		),
		ClassifierLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "engine_classifier_latency_seconds",
				Help:    "Remote content classifier call latency",
				Buckets: classifierLatencyBuckets,
			},
		),
		EscalationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "engine_escalation_failures_total",
				Help: "Escalation effect failures pending retry",
			},
		),
		RankRequests: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "engine_rank_requests_total",
				Help: "Candidate ranking requests",
			},
		),
		RankLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "engine_rank_latency_seconds",
				Help:    "Candidate ranking duration",
				Buckets: rankLatencyBuckets,
			},
		),
	}

	reg.MustRegister(
		m.MessagesScreened,
		m.ClassifierRequests,
		m.ClassifierLatency,
		m.EscalationFailures,
		m.RankRequests,
		m.RankLatency,
	)

	// Pre-initialize outcome labels so dashboards see zeroes immediately.
	for _, outcome := range []string{"passed", "keyword_blocked", "remote_blocked"} {
		m.MessagesScreened.WithLabelValues(outcome)
	}
	m.ClassifierRequests.WithLabelValues("success")
	m.ClassifierRequests.WithLabelValues("error")

	return m
}

// Handler returns the http.Handler serving the /metrics endpoint for the
// given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

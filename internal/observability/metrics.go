package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	acceptancesTotal     *prometheus.CounterVec
	gateOutcomesTotal    *prometheus.CounterVec
	captureDroppedTotal  *prometheus.CounterVec
	pushedSolutionsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		acceptancesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_acceptances_total",
			Help: "Accepted verdicts detected, by signal source.",
		}, []string{"source"})

		gateOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_gate_outcomes_total",
			Help: "Deduplication gate decisions.",
		}, []string{"outcome"})

		captureDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_dropped_total",
			Help: "Acceptance events dropped before reaching the gate.",
		}, []string{"reason"})

		pushedSolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "push_solutions_total",
			Help: "Pending solutions processed by the push pipeline.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			acceptancesTotal,
			gateOutcomesTotal,
			captureDroppedTotal,
			pushedSolutionsTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Acceptances exposes the counter of detected accepted verdicts.
func Acceptances() *prometheus.CounterVec {
	RegisterMetrics()
	return acceptancesTotal
}

// GateOutcomes exposes the counter of gate decisions.
func GateOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return gateOutcomesTotal
}

// CaptureDropped exposes the counter of incomplete acceptance events.
func CaptureDropped() *prometheus.CounterVec {
	RegisterMetrics()
	return captureDroppedTotal
}

// PushedSolutions exposes the counter of push pipeline results.
func PushedSolutions() *prometheus.CounterVec {
	RegisterMetrics()
	return pushedSolutionsTotal
}

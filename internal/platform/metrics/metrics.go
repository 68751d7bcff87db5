// Package metrics builds the Prometheus collectors used by the instrumenting middleware.
package metrics

import (
	"net/http"

	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	methodOutcome = []string{"method", "outcome"}
	outcomeOnly   = []string{"outcome"}
)

// Metrics holds the go-kit views of the registered collectors.
type Metrics struct {
	RequestCount    metrics.Counter
	RequestDuration metrics.Histogram
	DroppedRows     metrics.Counter

	gatherer prometheus.Gatherer
}

// New registers the price-series collectors on a fresh registry, together with the
// Go runtime and process collectors.
func New(namespace, subsystem string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg, namespace, subsystem)
}

// NewWithRegistry registers the collectors on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer, namespace, subsystem string) *Metrics {
	count := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_count",
		Help:      "Number of price series requests.",
	}, methodOutcome)
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Duration of price series requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, methodOutcome)
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dropped_rows_total",
		Help:      "Rows discarded for a missing closing price.",
	}, outcomeOnly)
	reg.MustRegister(count, duration, dropped)

	return &Metrics{
		RequestCount:    kitprometheus.NewCounter(count),
		RequestDuration: kitprometheus.NewHistogram(duration),
		DroppedRows:     kitprometheus.NewCounter(dropped),
		gatherer:        g,
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

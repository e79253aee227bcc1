// Package metrics exposes the evaluator's Prometheus instrumentation:
// per-symbol tick counters, skipped-tick reasons, evaluation latency, an
// opportunity counter and a last-PnL gauge. Instance-scoped (a *Collector, not package
// globals) so a test can construct its own registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the evaluator records.
type Collector struct {
	registry *prometheus.Registry

	ticksIngested *prometheus.CounterVec
	ticksSkipped  *prometheus.CounterVec
	evaluations   *prometheus.CounterVec
	evalLatencyMs prometheus.Histogram
	lastPnL       prometheus.Gauge
	opportunities prometheus.Counter
}

// New builds a Collector on its own registry, namespaced "triarb" /
// subsystem "evaluator".
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		ticksIngested: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "triarb",
			Subsystem: "evaluator",
			Name:      "ticks_ingested_total",
			Help:      "Total order book ticks folded into the cache, by symbol.",
		}, []string{"symbol"}),
		ticksSkipped: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "triarb",
			Subsystem: "evaluator",
			Name:      "ticks_skipped_total",
			Help:      "Ticks that did not produce an evaluation, by reason.",
		}, []string{"reason"}),
		evaluations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "triarb",
			Subsystem: "evaluator",
			Name:      "evaluations_total",
			Help:      "Completed path evaluations, by opportunity outcome.",
		}, []string{"opportunity"}),
		evalLatencyMs: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "triarb",
			Subsystem: "evaluator",
			Name:      "evaluation_latency_ms",
			Help:      "Time to evaluate a completed tick, in milliseconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		lastPnL: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "triarb",
			Subsystem: "evaluator",
			Name:      "last_unrealised_pnl",
			Help:      "Unrealised PnL of the most recent evaluation.",
		}),
		opportunities: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "triarb",
			Subsystem: "evaluator",
			Name:      "opportunities_detected_total",
			Help:      "Total evaluations classified as a profitable opportunity.",
		}),
	}
	return c
}

// ObserveTickIngested records that a tick for symbol entered the cache.
func (c *Collector) ObserveTickIngested(symbol string) {
	c.ticksIngested.WithLabelValues(symbol).Inc()
}

// ObserveTickSkipped records a tick that did not reach a full evaluation.
func (c *Collector) ObserveTickSkipped(reason string) {
	c.ticksSkipped.WithLabelValues(reason).Inc()
}

// ObserveEvaluation records a completed evaluation's outcome, PnL, and
// latency in nanoseconds.
func (c *Collector) ObserveEvaluation(isOpportunity bool, pnl float64, latencyNs int64) {
	label := "no"
	if isOpportunity {
		label = "yes"
		c.opportunities.Inc()
	}
	c.evaluations.WithLabelValues(label).Inc()
	c.lastPnL.Set(pnl)
	c.evalLatencyMs.Observe(float64(latencyNs) / 1e6)
}

// Handler returns the HTTP handler that exposes this collector's registry
// in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve starts a blocking HTTP server exposing /metrics on addr.
func (c *Collector) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return http.ListenAndServe(addr, mux)
}

// Package metrics exposes Prometheus counters for the serving surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder struct {
	registry *prometheus.Registry

	toolCalls   *prometheus.CounterVec
	cacheHits   prometheus.Counter
	runDuration prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "squad_engine_tool_calls_total",
		Help: "MCP tool calls by tool name and outcome.",
	}, []string{"tool", "outcome"})

	r.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "squad_engine_report_cache_hits_total",
		Help: "Analysis reports served from the Redis cache.",
	})

	r.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "squad_engine_analysis_duration_seconds",
		Help:    "Wall time of full analysis runs.",
		Buckets: prometheus.DefBuckets,
	})

	r.registry.MustRegister(r.toolCalls, r.cacheHits, r.runDuration)
	return r
}

// RecordToolCall increments the per-tool counter. Nil-safe.
func (r *Recorder) RecordToolCall(tool string, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.toolCalls.WithLabelValues(tool, outcome).Inc()
}

// RecordCacheHit counts a report served from cache. Nil-safe.
func (r *Recorder) RecordCacheHit() {
	if r == nil {
		return
	}
	r.cacheHits.Inc()
}

// RecordRunDuration observes one analysis run's wall time in seconds. Nil-safe.
func (r *Recorder) RecordRunDuration(seconds float64) {
	if r == nil {
		return
	}
	r.runDuration.Observe(seconds)
}

// Handler serves the /metrics endpoint for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

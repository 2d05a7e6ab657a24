// Package metrics publishes Prometheus metrics for pipeline and cache
// activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CacheLookupOutcome captures the result of a cache lookup.
type CacheLookupOutcome string

const (
	// CacheLookupHit indicates the lookup reused a cached image reference.
	CacheLookupHit CacheLookupOutcome = "hit"
	// CacheLookupMiss indicates no usable entry was present.
	CacheLookupMiss CacheLookupOutcome = "miss"
	// CacheLookupStale indicates an entry existed but was expired or dead.
	CacheLookupStale CacheLookupOutcome = "stale"
)

// Recorder publishes Prometheus metrics for pipeline activity. A nil
// Recorder is valid and records nothing, so tests can pass nil.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	stageDuration *prometheus.HistogramVec
	stageOutcomes *prometheus.CounterVec

	cacheLookups *prometheus.CounterVec
	cacheStores  *prometheus.CounterVec

	imageResolutions *prometheus.CounterVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a
// dedicated registry is created so multiple recorders can coexist without
// conflicting with the global default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	r := &Recorder{
		gatherer: reg,
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "menulens",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"stage", "outcome"}),
		stageOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menulens",
			Subsystem: "pipeline",
			Name:      "stage_outcomes_total",
			Help:      "Count of stage completions by outcome.",
		}, []string{"stage", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menulens",
			Subsystem: "imagecache",
			Name:      "lookups_total",
			Help:      "Image cache lookups by tier and outcome.",
		}, []string{"tier", "outcome"}),
		cacheStores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menulens",
			Subsystem: "imagecache",
			Name:      "stores_total",
			Help:      "Image cache store attempts by tier and outcome.",
		}, []string{"tier", "outcome"}),
		imageResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menulens",
			Subsystem: "pipeline",
			Name:      "image_resolutions_total",
			Help:      "How each item's image was resolved (cache, fallback, synthesized, placeholder).",
		}, []string{"source"}),
	}

	reg.MustRegister(
		r.stageDuration,
		r.stageOutcomes,
		r.cacheLookups,
		r.cacheStores,
		r.imageResolutions,
	)

	r.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return r
}

// Handler returns the /metrics HTTP handler.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return r.handler
}

// ObserveStage records one stage execution.
func (r *Recorder) ObserveStage(stage, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage, outcome).Observe(duration.Seconds())
	r.stageOutcomes.WithLabelValues(stage, outcome).Inc()
}

// ObserveCacheLookup records a lookup against one cache tier.
func (r *Recorder) ObserveCacheLookup(tier string, outcome CacheLookupOutcome) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(tier, string(outcome)).Inc()
}

// ObserveCacheStore records a store attempt against one cache tier.
func (r *Recorder) ObserveCacheStore(tier string, ok bool) {
	if r == nil {
		return
	}
	outcome := "stored"
	if !ok {
		outcome = "error"
	}
	r.cacheStores.WithLabelValues(tier, outcome).Inc()
}

// ObserveImageResolution records which path produced an item's image.
func (r *Recorder) ObserveImageResolution(source string) {
	if r == nil {
		return
	}
	r.imageResolutions.WithLabelValues(source).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the vessel module.
// Tracks registration churn, lookup latency, and cache effectiveness.
type Metrics struct {
	VesselsCreated prometheus.Counter
	VesselsDeleted prometheus.Counter
	LookupDuration prometheus.Histogram
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
}

// New creates a Metrics instance with all vessel module metrics registered.
func New() *Metrics {
	return &Metrics{
		VesselsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vesselregistry_vessels_created_total",
			Help: "Total number of vessels registered",
		}),
		VesselsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vesselregistry_vessels_deleted_total",
			Help: "Total number of vessels deleted",
		}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vesselregistry_lookup_duration_seconds",
			Help:    "Duration of vessel lookups by id or IMO number",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vesselregistry_cache_hits_total",
			Help: "Vessel cache hits by lookup key kind",
		}, []string{"key"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vesselregistry_cache_misses_total",
			Help: "Vessel cache misses by lookup key kind",
		}, []string{"key"}),
	}
}

// IncrementVesselCreated records a successful vessel registration.
func (m *Metrics) IncrementVesselCreated() {
	m.VesselsCreated.Inc()
}

// IncrementVesselDeleted records a vessel removal.
func (m *Metrics) IncrementVesselDeleted() {
	m.VesselsDeleted.Inc()
}

// ObserveLookup records the duration of a lookup operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveLookup(start time.Time) {
	m.LookupDuration.Observe(time.Since(start).Seconds())
}

// RecordCacheHit records a cache hit for the given key kind ("id" or "imo").
func (m *Metrics) RecordCacheHit(key string) {
	m.CacheHits.WithLabelValues(key).Inc()
}

// RecordCacheMiss records a cache miss for the given key kind.
func (m *Metrics) RecordCacheMiss(key string) {
	m.CacheMisses.WithLabelValues(key).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EngineMetrics holds the engine's Prometheus collectors.
type EngineMetrics struct {
	AnalysesTotal       *prometheus.CounterVec
	RiskAssessments     *prometheus.CounterVec
	ProfileCacheHits    prometheus.Counter
	ProfileCacheMisses  prometheus.Counter
	AnalysisDuration    prometheus.Histogram
	WorkloadEventsTotal *prometheus.CounterVec
}

// New registers the engine collectors on the given registerer.
func New(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)
	return &EngineMetrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workload",
			Name:      "assignment_analyses_total",
			Help:      "Assignment impact analyses by recommendation.",
		}, []string{"recommendation"}),
		RiskAssessments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workload",
			Name:      "risk_assessments_total",
			Help:      "Risk classifications by model and level.",
		}, []string{"model", "level"}),
		ProfileCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "workload",
			Name:      "profile_cache_hits_total",
			Help:      "Capacity profile cache hits.",
		}),
		ProfileCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "workload",
			Name:      "profile_cache_misses_total",
			Help:      "Capacity profile cache misses.",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "workload",
			Name:      "assignment_analysis_duration_seconds",
			Help:      "Wall time spent per assignment impact analysis.",
			Buckets:   prometheus.DefBuckets,
		}),
		WorkloadEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workload",
			Name:      "workload_events_total",
			Help:      "Recorded workload events by action.",
		}, []string{"action"}),
	}
}

// NewNop returns metrics backed by a throwaway registry, for tests.
func NewNop() *EngineMetrics {
	return New(prometheus.NewRegistry())
}

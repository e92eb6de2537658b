package assessment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payshield",
			Subsystem: "risk",
			Name:      "evaluations_total",
			Help:      "Total number of risk evaluations by recommended action",
		},
		[]string{"action"},
	)

	evaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "payshield",
			Subsystem: "risk",
			Name:      "evaluation_duration_seconds",
			Help:      "End-to-end risk evaluation latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	contextFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payshield",
			Subsystem: "risk",
			Name:      "context_fetch_failures_total",
			Help:      "Evaluations failed because the context provider was unavailable",
		},
	)

	rangeViolations = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payshield",
			Subsystem: "risk",
			Name:      "score_range_violations_total",
			Help:      "Layer scores observed outside [0,100] and clamped",
		},
	)
)

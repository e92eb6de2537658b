package receiver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var predictorFallbacks = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "payshield",
		Subsystem: "risk",
		Name:      "predictor_fallbacks_total",
		Help:      "Receiver scores served rule-based because the predictor failed or timed out",
	},
)

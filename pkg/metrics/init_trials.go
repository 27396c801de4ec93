package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTrialMetrics() {
	r.TrialsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coreperiphery_trials_total",
			Help: "Total number of optimizer trials",
		},
		[]string{"algorithm", "status"}, // ok, error
	)

	r.TrialDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coreperiphery_trial_duration_seconds",
			Help:    "Duration of a single optimizer trial in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
		},
		[]string{"algorithm"},
	)

	r.EarlyStopsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coreperiphery_early_stops_total",
			Help: "Runs that ended before their planned trial count",
		},
		[]string{"algorithm"},
	)

	r.RunReductionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coreperiphery_run_reductions_total",
			Help: "Runs whose trial count was reduced for graph size",
		},
		[]string{"algorithm"},
	)

	r.BestQuality = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coreperiphery_best_quality",
			Help: "Quality of the best trial in the most recent run",
		},
		[]string{"algorithm"},
	)
}

package metrics

import (
	"time"
)

// Trial statuses.
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusDegenerate = "degenerate"
)

// RecordTrial records one optimizer trial with its duration
func (r *Registry) RecordTrial(algorithm, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.TrialsTotal.WithLabelValues(algorithm, status).Inc()
	r.TrialDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordRunOutcome records the summary of a scheduler run
func (r *Registry) RecordRunOutcome(algorithm string, bestQuality float64, earlyStopped, reduced bool) {
	if r == nil {
		return
	}
	r.BestQuality.WithLabelValues(algorithm).Set(bestQuality)
	if earlyStopped {
		r.EarlyStopsTotal.WithLabelValues(algorithm).Inc()
	}
	if reduced {
		r.RunReductionsTotal.WithLabelValues(algorithm).Inc()
	}
}

// RecordDetection records a detection request
func (r *Registry) RecordDetection(algorithm, status string, nodes int, duration time.Duration) {
	if r == nil {
		return
	}
	r.DetectionsTotal.WithLabelValues(algorithm, status).Inc()
	r.DetectionDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	r.GraphNodes.WithLabelValues(algorithm).Observe(float64(nodes))
}

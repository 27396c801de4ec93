package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDetectionMetrics() {
	r.DetectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "coreperiphery_detections_total",
			Help: "Total number of detection requests",
		},
		[]string{"algorithm", "status"}, // ok, degenerate, error
	)

	r.DetectionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coreperiphery_detection_duration_seconds",
			Help:    "End-to-end duration of a detection request in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"algorithm"},
	)

	r.GraphNodes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coreperiphery_graph_nodes",
			Help:    "Node count of graphs submitted for detection",
			Buckets: prometheus.ExponentialBuckets(2, 4, 10),
		},
		[]string{"algorithm"},
	)
}

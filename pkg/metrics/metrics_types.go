package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Trial Metrics
	TrialsTotal        *prometheus.CounterVec
	TrialDuration      *prometheus.HistogramVec
	EarlyStopsTotal    *prometheus.CounterVec
	RunReductionsTotal *prometheus.CounterVec
	BestQuality        *prometheus.GaugeVec

	// Detection Metrics
	DetectionsTotal   *prometheus.CounterVec
	DetectionDuration *prometheus.HistogramVec
	GraphNodes        *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initTrialMetrics()
	r.initDetectionMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

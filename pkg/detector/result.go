package detector

import (
	"github.com/google/uuid"
)

// Group names used in Result.Group.
const (
	GroupCore      = "core"
	GroupPeriphery = "periphery"
)

// Stats are the scheduler diagnostics of a detection.
type Stats struct {
	RunsRequested int       `json:"runs_requested"`
	RunsPlanned   int       `json:"runs_planned"`
	RunsCompleted int       `json:"runs_completed"`
	EarlyStops    int       `json:"early_stops"`
	Failures      int       `json:"failures"`
	ScoreHistory  []float64 `json:"score_history"`
	HitCap        bool      `json:"hit_cap"`
	BestRun       int       `json:"best_run"`
	BestSeed      uint64    `json:"best_seed"`
}

// Result is the output of a detection, keyed by external node label.
type Result struct {
	RequestID    uuid.UUID          `json:"request_id"`
	Algorithm    string             `json:"algorithm"`
	Group        map[string]string  `json:"group"`
	Coreness     map[string]float64 `json:"coreness"`
	QualityScore float64            `json:"quality_score"`
	Stats        Stats              `json:"stats"`
	// Promoted lists nodes forced into the core by outlier promotion.
	Promoted []string `json:"promoted,omitempty"`

	// Assignment and CorenessVector are indexed by dense node index.
	Assignment     []uint8   `json:"assignment"`
	CorenessVector []float64 `json:"coreness_vector"`
}

// CoreNodes returns the labels classified as core, in dense index order.
func (r *Result) CoreNodes(labels []string) []string {
	var core []string
	for i, v := range r.Assignment {
		if v == 1 && i < len(labels) {
			core = append(core, labels[i])
		}
	}
	return core
}

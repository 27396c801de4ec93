package scheduler

import "math"

// RunCountPolicy decides how many trials a run dispatches.
type RunCountPolicy interface {
	Plan(requested, nodes int, pinned bool) int
}

// StopPolicy decides, after each sequential trial, whether to stop issuing
// further trials. history holds the scores of successful trials so far.
type StopPolicy interface {
	ShouldStop(history []float64) bool
}

// AdaptiveRunCount reduces the trial count on large graphs so that the total
// work stays near Budget node-trials. Pinned run counts are left alone.
type AdaptiveRunCount struct {
	NodeThreshold int `yaml:"node_threshold" validate:"min=0"`
	Budget        int `yaml:"budget" validate:"min=1"`
}

// DefaultAdaptiveRunCount returns the reduction used by detectors unless
// configured otherwise.
func DefaultAdaptiveRunCount() AdaptiveRunCount {
	return AdaptiveRunCount{NodeThreshold: 100, Budget: 100}
}

// Plan implements RunCountPolicy.
func (p AdaptiveRunCount) Plan(requested, nodes int, pinned bool) int {
	requested = max(1, requested)
	if pinned || nodes <= p.NodeThreshold || nodes == 0 {
		return requested
	}
	return min(requested, max(1, p.Budget/nodes))
}

// FixedRunCount always runs the requested number of trials.
type FixedRunCount struct{}

// Plan implements RunCountPolicy.
func (FixedRunCount) Plan(requested, _ int, _ bool) int {
	return max(1, requested)
}

// RelativeImprovementStop stops once a trial improves on the previous trial's
// score by less than MinImprovement, relative to the previous score.
type RelativeImprovementStop struct {
	MinImprovement float64 `yaml:"min_improvement" validate:"gte=0"`
}

// DefaultRelativeImprovementStop stops below a 0.1% improvement.
func DefaultRelativeImprovementStop() RelativeImprovementStop {
	return RelativeImprovementStop{MinImprovement: 0.001}
}

// ShouldStop implements StopPolicy.
func (p RelativeImprovementStop) ShouldStop(history []float64) bool {
	if len(history) < 2 {
		return false
	}
	prev, cur := history[len(history)-2], history[len(history)-1]
	return relativeImprovement(prev, cur) < p.MinImprovement
}

func relativeImprovement(prev, cur float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return (cur - prev) / math.Abs(prev)
}

// NeverStop runs every planned trial.
type NeverStop struct{}

// ShouldStop implements StopPolicy.
func (NeverStop) ShouldStop([]float64) bool { return false }

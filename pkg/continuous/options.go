package continuous

import (
	"fmt"
	"strings"
)

// Strategy selects how the rank ordering is searched.
type Strategy int

const (
	LabelSwitching Strategy = iota
	ParallelLabelSwitching
	Annealing
)

// String returns the configuration name of the strategy
func (s Strategy) String() string {
	switch s {
	case LabelSwitching:
		return "label_switching"
	case ParallelLabelSwitching:
		return "parallel_label_switching"
	case Annealing:
		return "annealing"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a configuration name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "label_switching", "ls", "":
		return LabelSwitching, nil
	case "parallel_label_switching", "pls":
		return ParallelLabelSwitching, nil
	case "annealing", "sa":
		return Annealing, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// AnnealOptions configures the simulated annealing schedule.
type AnnealOptions struct {
	TMax float64 `yaml:"t_max" validate:"gt=0"`
	TMin float64 `yaml:"t_min" validate:"gt=0,ltfield=TMax"`
	// Steps is the total move budget; 0 selects min(10000, max(1000, 50n)).
	Steps int `yaml:"steps" validate:"gte=0"`
}

// Options tunes the Rombach search.
type Options struct {
	Alpha    float64  `yaml:"alpha" validate:"gte=0,lte=1"`
	Beta     float64  `yaml:"beta" validate:"gte=0,lte=1"`
	Strategy Strategy `yaml:"-"`
	// MaxPasses caps label-switching passes; 0 selects min(100, max(10, n/2)).
	MaxPasses int `yaml:"max_passes" validate:"gte=0"`
	// ChunkSize is the number of nodes evaluated together by the parallel
	// strategy; 0 selects a size from n and Workers.
	ChunkSize int `yaml:"chunk_size" validate:"gte=0"`
	Workers   int `yaml:"workers" validate:"gte=0"`
	Anneal    AnnealOptions `yaml:"anneal"`
}

// DefaultOptions returns alpha = beta = 0.5 with label switching.
func DefaultOptions() Options {
	return Options{
		Alpha:    0.5,
		Beta:     0.5,
		Strategy: LabelSwitching,
		Workers:  4,
		Anneal: AnnealOptions{
			TMax: 1.0,
			TMin: 1e-6,
		},
	}
}

// Validate checks the shape parameters and schedule.
func (o Options) Validate() error {
	if o.Alpha < 0 || o.Alpha > 1 {
		return fmt.Errorf("%w: alpha=%v", ErrInvalidParameter, o.Alpha)
	}
	if o.Beta < 0 || o.Beta > 1 {
		return fmt.Errorf("%w: beta=%v", ErrInvalidParameter, o.Beta)
	}
	if o.Strategy == Annealing && !(o.Anneal.TMax > o.Anneal.TMin && o.Anneal.TMin > 0) {
		return fmt.Errorf("%w: annealing needs t_max > t_min > 0", ErrInvalidParameter)
	}
	return nil
}

func (o Options) passCap(n int) int {
	if o.MaxPasses > 0 {
		return o.MaxPasses
	}
	return min(100, max(10, n/2))
}

func (o Options) annealSteps(n int) int {
	if o.Anneal.Steps > 0 {
		return o.Anneal.Steps
	}
	return min(10000, max(1000, 50*n))
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return 1
}

func (o Options) chunkSize(n int) int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return max(16, n/(4*o.workers()))
}

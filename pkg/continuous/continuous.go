// Package continuous implements the Rombach core-periphery search: a rank
// ordering of nodes mapped through a two-parameter shape function to a
// real-valued coreness, optimized for the bilinear score xᵀAx.
package continuous

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
	"github.com/dd0wney/cluso-coreperiphery/pkg/quality"
)

var (
	ErrUnknownStrategy  = errors.New("unknown continuous strategy")
	ErrInvalidParameter = errors.New("invalid shape parameter")
)

// minGain is the smallest swap delta treated as a strict improvement.
const minGain = 1e-12

// Result is the outcome of one run.
type Result struct {
	// Ranks[i] is node i's position; higher ranks are more core.
	Ranks    []int
	Coreness []float64
	Score    float64
	Passes   int
	Swaps    int
	HitCap   bool
}

// Quality returns the run's score.
func (r *Result) Quality() float64 {
	return r.Score
}

// Group classifies the ordering into core and periphery using beta.
func (r *Result) Group(beta float64) []uint8 {
	return Classify(r.Ranks, beta)
}

// Optimize runs one randomized Rombach search with the configured strategy.
// rng belongs to the calling trial. ctx is checked between passes.
func Optimize(ctx context.Context, g *graph.SparseGraph, opts Options, rng *rand.Rand) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	n := g.NodeCount()
	if g.IsDegenerate() {
		ranks := make([]int, n)
		for i := range ranks {
			ranks[i] = i
		}
		return &Result{Ranks: ranks, Coreness: corenessVector(ranks, opts.Alpha, opts.Beta)}, nil
	}

	o := newOrdering(g, rng.Perm(n), opts.Alpha, opts.Beta)

	var (
		res *Result
		err error
	)
	switch opts.Strategy {
	case LabelSwitching:
		res, err = labelSwitch(ctx, o, opts, rng)
	case ParallelLabelSwitching:
		res, err = parallelLabelSwitch(ctx, o, opts, rng)
	case Annealing:
		res, err = anneal(ctx, o, opts, rng)
	default:
		return nil, ErrUnknownStrategy
	}
	if err != nil {
		return nil, err
	}

	res.Coreness = corenessVector(res.Ranks, opts.Alpha, opts.Beta)
	res.Score = quality.Continuous(g, res.Coreness)
	return res, nil
}

// labelSwitch visits nodes in a fresh random order each pass and swaps each
// with the rank partner giving the largest strictly positive gain.
func labelSwitch(ctx context.Context, o *ordering, opts Options, rng *rand.Rand) (*Result, error) {
	n := o.g.NodeCount()
	passLimit := opts.passCap(n)
	res := &Result{}
	r := newRow(o.g)
	defer r.release()

	for pass := 0; pass < passLimit; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Passes++
		swaps := 0

		for _, i := range rng.Perm(n) {
			r.load(i)
			j, gain := bestPartner(o, i, r.w)
			if j >= 0 && gain > minGain {
				o.swap(i, j, r.w[j])
				swaps++
			}
		}
		r.clear()
		res.Swaps += swaps

		if swaps == 0 {
			break
		}
		if pass == passLimit-1 {
			res.HitCap = true
		}
	}

	res.Ranks = o.snapshot()
	return res, nil
}

// bestPartner scans every other node for the swap with node i of highest
// gain. w is i's dense adjacency row. Ties keep the lowest index.
func bestPartner(o *ordering, i int, w []float64) (int, float64) {
	best, bestGain := -1, 0.0
	for j := range o.x {
		if j == i {
			continue
		}
		if gain := o.swapDelta(i, j, w[j]); gain > bestGain {
			best, bestGain = j, gain
		}
	}
	return best, bestGain
}

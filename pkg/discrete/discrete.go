// Package discrete implements the BE core-periphery search: Kernighan-Lin
// style single-node relabeling over binary core/periphery assignments.
package discrete

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
	"github.com/dd0wney/cluso-coreperiphery/pkg/quality"
)

// Result is the outcome of one run.
type Result struct {
	Group  []uint8
	Score  float64
	Passes int
	// HitCap is set when MaxPasses ran out before a pass stopped improving.
	HitCap bool
	// PassHistory holds the best score reached in each pass.
	PassHistory []float64
}

// Quality returns the run's score.
func (r *Result) Quality() float64 {
	return r.Score
}

// Optimize runs one randomized BE search. rng is owned by the caller's
// trial and must not be shared across goroutines.
func Optimize(g *graph.SparseGraph, opts Options, rng *rand.Rand) *Result {
	n := g.NodeCount()
	if !quality.HasValidPartition(g) {
		return allPeriphery(n)
	}

	x := make([]uint8, n)
	for i := range x {
		x[i] = uint8(rng.IntN(2))
	}
	s := newState(g, x)

	res := &Result{}
	current, ok := s.score()
	if !ok {
		current = math.Inf(-1)
	}

	for pass := 0; pass < opts.MaxPasses; pass++ {
		best := s.pass(opts, rng, current)
		res.Passes++
		if best > math.Inf(-1) {
			res.PassHistory = append(res.PassHistory, best)
		}

		gain := best - current
		if best > current {
			current = best
		}
		if !(gain > opts.Epsilon) {
			break
		}
		if pass == opts.MaxPasses-1 {
			res.HitCap = true
		}
	}

	if _, ok := s.score(); !ok {
		out := allPeriphery(n)
		out.Passes, out.HitCap, out.PassHistory = res.Passes, res.HitCap, res.PassHistory
		return out
	}
	res.Group = s.x
	res.Score = quality.Discrete(g, s.x)
	return res
}

// allPeriphery is the trivial result reported when no valid partition was
// reached: every node periphery and Q = 0.
func allPeriphery(n int) *Result {
	group := make([]uint8, n)
	for i := range group {
		group[i] = quality.Periphery
	}
	return &Result{Group: group}
}

// pass performs one Kernighan-Lin pass starting from a state scoring start.
// Each node flips at most once. The pass stops after Patience consecutive
// flips fail to beat the pass best, then rolls back to that best.
func (s *state) pass(opts Options, rng *rand.Rand, start float64) float64 {
	fixed := make([]bool, s.n)
	free := make([]int, s.n)
	pos := make([]int, s.n)
	for i := range free {
		free[i] = i
		pos[i] = i
	}

	sampling := opts.sampling(s.n)
	flipCap := opts.flipsPerPass(s.n)

	passBest := start
	flips := make([]int, 0, flipCap)
	bestLen := 0
	stalls := 0

	for step := 0; step < flipCap && len(free) > 0; step++ {
		idx, q := s.bestFlip(fixed, free, sampling, opts.SampleSize, rng)
		if idx < 0 {
			break
		}

		s.flip(idx)
		fixed[idx] = true
		flips = append(flips, idx)

		// swap-remove idx from the free list
		last := free[len(free)-1]
		free[pos[idx]] = last
		pos[last] = pos[idx]
		free = free[:len(free)-1]

		if q > passBest+opts.Epsilon || (math.IsInf(passBest, -1) && q > passBest) {
			passBest = q
			bestLen = len(flips)
			stalls = 0
			continue
		}
		stalls++
		if opts.Patience > 0 && stalls >= opts.Patience {
			break
		}
	}

	for k := len(flips) - 1; k >= bestLen; k-- {
		s.flip(flips[k])
	}
	return passBest
}

// bestFlip returns the unfixed node whose flip yields the highest valid
// score, scanning either every node in index order or a random sample of
// the free list. Ties keep the first candidate seen.
func (s *state) bestFlip(fixed []bool, free []int, sampling bool, sampleSize int, rng *rand.Rand) (int, float64) {
	bestIdx, bestQ := -1, math.Inf(-1)

	consider := func(i int) {
		q, ok := s.flipScore(i)
		if ok && q > bestQ {
			bestIdx, bestQ = i, q
		}
	}

	if !sampling || sampleSize >= len(free) {
		for i := 0; i < s.n; i++ {
			if !fixed[i] {
				consider(i)
			}
		}
		return bestIdx, bestQ
	}

	for k := 0; k < sampleSize; k++ {
		consider(free[rng.IntN(len(free))])
	}
	return bestIdx, bestQ
}

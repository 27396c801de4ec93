package continuous

import (
	"context"
	"math"
	"math/rand/v2"
)

// checkEvery is how many annealing moves run between context checks.
const checkEvery = 1024

// anneal runs a Metropolis search over permutations. A move swaps the ranks
// of two random nodes; energy is -xᵀAx; the temperature cools
// geometrically from TMax to TMin over the step budget.
func anneal(ctx context.Context, o *ordering, opts Options, rng *rand.Rand) (*Result, error) {
	n := o.g.NodeCount()
	steps := opts.annealSteps(n)

	cooling := 1.0
	if steps > 1 {
		cooling = math.Pow(opts.Anneal.TMin/opts.Anneal.TMax, 1/float64(steps-1))
	}

	res := &Result{Passes: 1}
	best := o.snapshot()
	bestScore := o.score
	temp := opts.Anneal.TMax

	for step := 0; step < steps; step++ {
		if step%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		i := rng.IntN(n)
		j := rng.IntN(n - 1)
		if j >= i {
			j++
		}

		aij := o.weight(i, j)
		delta := o.swapDelta(i, j, aij)
		if delta >= 0 || rng.Float64() < math.Exp(delta/temp) {
			o.swap(i, j, aij)
			res.Swaps++
			if o.score > bestScore+minGain {
				bestScore = o.score
				best = o.snapshot()
			}
		}
		temp *= cooling
	}

	res.Ranks = best
	return res, nil
}

package continuous

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

type proposal struct {
	i, j int
	gain float64
}

// parallelLabelSwitch splits each pass's visitation order into chunks. All
// nodes of a chunk pick their best partner concurrently against the state
// at chunk start; the proposals are then applied in visitation order,
// skipping any that touch a node already swapped in this chunk. Gains are
// not re-checked after earlier swaps in the same chunk, so an applied swap
// can lower the score; the best ordering seen at a pass boundary is
// returned.
func parallelLabelSwitch(ctx context.Context, o *ordering, opts Options, rng *rand.Rand) (*Result, error) {
	n := o.g.NodeCount()
	passLimit := opts.passCap(n)
	workers := opts.workers()
	chunk := opts.chunkSize(n)

	rows := make([]*row, workers)
	for w := range rows {
		rows[w] = newRow(o.g)
		defer rows[w].release()
	}
	proposals := make([]proposal, chunk)
	touched := make([]bool, n)

	res := &Result{}
	best := o.snapshot()
	bestScore := o.rescore()

	for pass := 0; pass < passLimit; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Passes++
		swaps := 0
		order := rng.Perm(n)

		for lo := 0; lo < n; lo += chunk {
			nodes := order[lo:min(lo+chunk, n)]

			eg, _ := errgroup.WithContext(ctx)
			for w := 0; w < workers && w < len(nodes); w++ {
				r := rows[w]
				eg.Go(func() error {
					for k := w; k < len(nodes); k += workers {
						i := nodes[k]
						r.load(i)
						j, gain := bestPartner(o, i, r.w)
						proposals[k] = proposal{i: i, j: j, gain: gain}
					}
					r.clear()
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return nil, err
			}

			for k := range nodes {
				p := proposals[k]
				if p.j < 0 || p.gain <= minGain || touched[p.i] || touched[p.j] {
					continue
				}
				o.swap(p.i, p.j, o.weight(p.i, p.j))
				touched[p.i], touched[p.j] = true, true
				swaps++
			}
			for k := range nodes {
				p := proposals[k]
				touched[p.i] = false
				if p.j >= 0 {
					touched[p.j] = false
				}
			}
		}
		res.Swaps += swaps

		if score := o.rescore(); score > bestScore {
			bestScore = score
			best = o.snapshot()
		}
		if swaps == 0 {
			break
		}
		if pass == passLimit-1 {
			res.HitCap = true
		}
	}

	res.Ranks = best
	return res, nil
}

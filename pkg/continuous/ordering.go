package continuous

import (
	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
	"github.com/dd0wney/cluso-coreperiphery/pkg/pools"
	"github.com/dd0wney/cluso-coreperiphery/pkg/quality"
)

// ordering is the mutable search state of one run: node ranks, their
// coreness values x, neighborhood sums S_i = Σ_j A_ij x_j and the running
// score xᵀAx.
type ordering struct {
	g           *graph.SparseGraph
	alpha, beta float64
	ranks       []int
	x           []float64
	s           []float64
	score       float64
}

func newOrdering(g *graph.SparseGraph, ranks []int, alpha, beta float64) *ordering {
	o := &ordering{
		g:     g,
		alpha: alpha,
		beta:  beta,
		ranks: ranks,
		x:     corenessVector(ranks, alpha, beta),
	}
	o.s = quality.Neighborhood(g, o.x)
	for i, xi := range o.x {
		o.score += xi * o.s[i]
	}
	return o
}

// swapDelta is the score change from exchanging the ranks of i and j, where
// aij is the edge weight between them (0 if not adjacent).
func (o *ordering) swapDelta(i, j int, aij float64) float64 {
	d := o.x[j] - o.x[i]
	return 2 * d * (o.s[i] - o.s[j] - aij*d)
}

// swap exchanges the ranks of i and j and updates x, S and the score.
func (o *ordering) swap(i, j int, aij float64) {
	delta := o.swapDelta(i, j, aij)
	d := o.x[j] - o.x[i]

	o.ranks[i], o.ranks[j] = o.ranks[j], o.ranks[i]
	o.x[i], o.x[j] = o.x[j], o.x[i]

	nbrs, ws := o.g.Neighbors(i)
	for k, v := range nbrs {
		o.s[v] += ws[k] * d
	}
	nbrs, ws = o.g.Neighbors(j)
	for k, v := range nbrs {
		o.s[v] -= ws[k] * d
	}
	o.score += delta
}

// weight returns A_ij by scanning the shorter adjacency row.
func (o *ordering) weight(i, j int) float64 {
	if o.g.Degree(j) < o.g.Degree(i) {
		i, j = j, i
	}
	nbrs, ws := o.g.Neighbors(i)
	for k, v := range nbrs {
		if v == j {
			return ws[k]
		}
	}
	return 0
}

// rescore recomputes the score from scratch, discarding accumulated
// floating point drift.
func (o *ordering) rescore() float64 {
	o.score = quality.Continuous(o.g, o.x)
	return o.score
}

func (o *ordering) snapshot() []int {
	out := make([]int, len(o.ranks))
	copy(out, o.ranks)
	return out
}

// row is a dense scratch copy of one adjacency row so A_ij lookups during a
// full candidate scan are O(1).
type row struct {
	w    []float64
	node int
	g    *graph.SparseGraph
}

func newRow(g *graph.SparseGraph) *row {
	return &row{w: pools.GetFloat64s(g.NodeCount()), node: -1, g: g}
}

// release hands the scratch vector back to the pool.
func (r *row) release() {
	pools.PutFloat64s(r.w)
	r.w = nil
}

func (r *row) load(i int) {
	r.clear()
	nbrs, ws := r.g.Neighbors(i)
	for k, v := range nbrs {
		r.w[v] = ws[k]
	}
	r.node = i
}

func (r *row) clear() {
	if r.node < 0 {
		return
	}
	nbrs, _ := r.g.Neighbors(r.node)
	for _, v := range nbrs {
		r.w[v] = 0
	}
	r.node = -1
}

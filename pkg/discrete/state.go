package discrete

import (
	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
	"github.com/dd0wney/cluso-coreperiphery/pkg/quality"
)

// state carries the running aggregates that make a flip's score delta O(1):
// the periphery size, each node's weight to periphery neighbors, and the
// weight of edges touching the core (mcc = M - periphery-periphery weight).
type state struct {
	g     *graph.SparseGraph
	n     int
	m     float64
	x     []uint8
	dperi []float64
	nperi int
	mcc   float64
}

func newState(g *graph.SparseGraph, x []uint8) *state {
	s := &state{
		g:     g,
		n:     g.NodeCount(),
		m:     g.TotalWeight(),
		x:     x,
		dperi: make([]float64, g.NodeCount()),
	}

	var pp float64
	for u := 0; u < s.n; u++ {
		if x[u] == quality.Periphery {
			s.nperi++
		}
		nbrs, ws := g.Neighbors(u)
		for k, v := range nbrs {
			if x[v] == quality.Periphery {
				s.dperi[u] += ws[k]
				if x[u] == quality.Periphery && v > u {
					pp += ws[k]
				}
			}
		}
	}
	s.mcc = s.m - pp
	return s
}

// score returns Q of the current assignment and whether it is valid.
func (s *state) score() (float64, bool) {
	if !quality.Valid(s.m, s.n, s.nperi) {
		return 0, false
	}
	return quality.DiscreteFromCounts(s.mcc, s.m, s.n, s.nperi), true
}

// flipScore returns Q after flipping node i without applying the flip.
func (s *state) flipScore(i int) (float64, bool) {
	nperi, mcc := s.nperi-1, s.mcc+s.dperi[i]
	if s.x[i] == quality.Core {
		nperi, mcc = s.nperi+1, s.mcc-s.dperi[i]
	}
	if !quality.Valid(s.m, s.n, nperi) {
		return 0, false
	}
	return quality.DiscreteFromCounts(mcc, s.m, s.n, nperi), true
}

// flip applies the relabeling of node i and updates the aggregates.
func (s *state) flip(i int) {
	sign := 1.0 // i joins the periphery
	if s.x[i] == quality.Periphery {
		sign = -1.0
		s.x[i] = quality.Core
		s.nperi--
		s.mcc += s.dperi[i]
	} else {
		s.x[i] = quality.Periphery
		s.nperi++
		s.mcc -= s.dperi[i]
	}

	nbrs, ws := s.g.Neighbors(i)
	for k, v := range nbrs {
		s.dperi[v] += sign * ws[k]
	}
}

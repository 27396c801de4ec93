// Package quality scores core-periphery partitions and orderings against a
// SparseGraph. All functions are pure.
package quality

import (
	"math"

	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
)

// Group labels used by discrete assignments.
const (
	Periphery uint8 = 0
	Core      uint8 = 1
)

// Discrete returns the normalized excess-connectivity score Q of a binary
// assignment. Q is 0 for degenerate graphs and for all-core or
// all-periphery assignments.
func Discrete(g *graph.SparseGraph, group []uint8) float64 {
	n := g.NodeCount()
	if g.IsDegenerate() || len(group) != n {
		return 0
	}

	var mcc float64
	nperi := 0
	for u := 0; u < n; u++ {
		if group[u] == Periphery {
			nperi++
		}
		xu := float64(group[u])
		nbrs, ws := g.Neighbors(u)
		for k, v := range nbrs {
			if v <= u {
				continue
			}
			xv := float64(group[v])
			mcc += ws[k] * (xu + xv - xu*xv)
		}
	}
	return DiscreteFromCounts(mcc, g.TotalWeight(), n, nperi)
}

// DiscreteFromCounts evaluates Q from aggregates: mcc is the weight of edges
// touching at least one core node, m the total edge weight, n the node count
// and nperi the periphery size. The incremental optimizer calls this after
// every tentative flip.
func DiscreteFromCounts(mcc, m float64, n, nperi int) float64 {
	q, ok := discreteScore(mcc, m, n, nperi)
	if !ok {
		return 0
	}
	return q
}

// Valid reports whether the partition with nperi periphery nodes has a
// non-degenerate denominator.
func Valid(m float64, n, nperi int) bool {
	_, ok := discreteScore(m, m, n, nperi)
	return ok
}

// HasValidPartition reports whether any periphery size yields a valid Q on
// g. It is false for degenerate graphs and for complete graphs, where the
// edge density is 1.
func HasValidPartition(g *graph.SparseGraph) bool {
	n, m := g.NodeCount(), g.TotalWeight()
	for nperi := 0; nperi <= n; nperi++ {
		if Valid(m, n, nperi) {
			return true
		}
	}
	return false
}

func discreteScore(mcc, m float64, n, nperi int) (float64, bool) {
	if n < 2 || m <= 0 {
		return 0, false
	}
	pairs := float64(n) * float64(n-1) / 2
	mb := pairs - float64(nperi)*float64(nperi-1)/2
	pa := m / pairs
	pb := mb / pairs

	denom := pa * (1 - pa) * pb * (1 - pb)
	if !(denom > 0) || math.IsInf(denom, 0) {
		return 0, false
	}
	q := (mcc - pa*mb) / math.Sqrt(denom) / pairs
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, false
	}
	return q, true
}

// Continuous returns the bilinear form xᵀAx. Each undirected edge
// contributes twice, once per stored direction.
func Continuous(g *graph.SparseGraph, x []float64) float64 {
	n := g.NodeCount()
	if len(x) != n {
		return 0
	}
	var q float64
	for u := 0; u < n; u++ {
		nbrs, ws := g.Neighbors(u)
		var s float64
		for k, v := range nbrs {
			s += ws[k] * x[v]
		}
		q += x[u] * s
	}
	return q
}

// Neighborhood returns S where S[i] = Σ_j A_ij x_j. Continuous equals
// Σ_i x_i S_i.
func Neighborhood(g *graph.SparseGraph, x []float64) []float64 {
	n := g.NodeCount()
	s := make([]float64, n)
	for u := 0; u < n; u++ {
		nbrs, ws := g.Neighbors(u)
		for k, v := range nbrs {
			s[u] += ws[k] * x[v]
		}
	}
	return s
}

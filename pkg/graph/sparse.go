// Package graph holds the immutable compressed adjacency structure shared by
// every core-periphery optimizer.
package graph

import (
	"math"
	"strconv"
)

// weightTolerance is the relative difference allowed between the two stored
// directions of an edge.
const weightTolerance = 1e-12

// SparseGraph is an undirected graph in compressed sparse row form. Every
// edge (u,v) is stored in both u's and v's row. A SparseGraph is never
// mutated after construction, so concurrent trials may share it freely.
type SparseGraph struct {
	rowOffsets []int
	neighbors  []int
	weights    []float64
	labels     []string
	index      map[string]int

	edgeCount   int
	totalWeight float64
	strength    []float64
}

// FromCSR wraps already-compressed adjacency arrays after validating them.
// A nil weights slice means unweighted; nil labels default to the decimal
// dense index.
func FromCSR(rowOffsets, neighbors []int, weights []float64, labels []string) (*SparseGraph, error) {
	if len(rowOffsets) == 0 {
		return nil, csrError(-1, "row offsets must have node_count+1 entries")
	}
	n := len(rowOffsets) - 1

	if weights == nil {
		weights = make([]float64, len(neighbors))
		for i := range weights {
			weights[i] = 1.0
		}
	}
	if labels == nil {
		labels = make([]string, n)
		for i := range labels {
			labels[i] = strconv.Itoa(i)
		}
	}

	g := &SparseGraph{
		rowOffsets: rowOffsets,
		neighbors:  neighbors,
		weights:    weights,
		labels:     labels,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	g.finish()
	return g, nil
}

// Validate checks the CSR invariants: non-decreasing offsets, matching
// array lengths, in-range neighbors, positive finite weights, no self loops,
// unique labels and a symmetric adjacency.
func (g *SparseGraph) Validate() error {
	n := len(g.rowOffsets) - 1
	if n < 0 {
		return csrError(-1, "missing row offsets")
	}
	if g.rowOffsets[0] != 0 {
		return csrError(0, "first offset must be 0")
	}
	for i := 0; i < n; i++ {
		if g.rowOffsets[i+1] < g.rowOffsets[i] {
			return csrError(i, "row offsets decrease")
		}
	}
	if len(g.neighbors) != g.rowOffsets[n] {
		return csrError(-1, "neighbor count does not match final offset")
	}
	if len(g.weights) != len(g.neighbors) {
		return csrError(-1, "weight count does not match neighbor count")
	}
	if len(g.labels) != n {
		return csrError(-1, "label count does not match node count")
	}

	seen := make(map[string]struct{}, n)
	for i, label := range g.labels {
		if _, dup := seen[label]; dup {
			return &GraphError{Op: "FromCSR", Node: label, Index: i, Cause: ErrDuplicateNode}
		}
		seen[label] = struct{}{}
	}

	// Symmetry: both directions of a pair must occur equally often and carry
	// the same total weight.
	type pair struct{ u, v int }
	type tally struct {
		count   int
		forward float64
		reverse float64
	}
	balance := make(map[pair]*tally, len(g.neighbors)/2)
	for u := 0; u < n; u++ {
		for k := g.rowOffsets[u]; k < g.rowOffsets[u+1]; k++ {
			v := g.neighbors[k]
			if v < 0 || v >= n {
				return csrError(u, "neighbor index out of range")
			}
			if v == u {
				return csrError(u, "self loop")
			}
			w := g.weights[k]
			if !(w > 0) || math.IsInf(w, 0) {
				return &GraphError{Op: "FromCSR", Index: u, Cause: ErrInvalidWeight}
			}
			key := pair{min(u, v), max(u, v)}
			t := balance[key]
			if t == nil {
				t = &tally{}
				balance[key] = t
			}
			if u < v {
				t.count++
				t.forward += w
			} else {
				t.count--
				t.reverse += w
			}
		}
	}
	for p, t := range balance {
		if t.count != 0 {
			return csrError(p.u, "adjacency is not symmetric")
		}
		if math.Abs(t.forward-t.reverse) > weightTolerance*max(t.forward, t.reverse) {
			return csrError(p.u, "asymmetric edge weight")
		}
	}
	return nil
}

// finish computes the derived aggregates once.
func (g *SparseGraph) finish() {
	n := g.NodeCount()
	g.index = make(map[string]int, n)
	for i, label := range g.labels {
		g.index[label] = i
	}

	g.strength = make([]float64, n)
	var twice float64
	for u := 0; u < n; u++ {
		var s float64
		for k := g.rowOffsets[u]; k < g.rowOffsets[u+1]; k++ {
			s += g.weights[k]
		}
		g.strength[u] = s
		twice += s
	}
	g.totalWeight = twice / 2
	g.edgeCount = len(g.neighbors) / 2
}

// NodeCount returns N.
func (g *SparseGraph) NodeCount() int {
	return len(g.rowOffsets) - 1
}

// EdgeCount returns the number of undirected edges.
func (g *SparseGraph) EdgeCount() int {
	return g.edgeCount
}

// TotalWeight returns M, the summed weight of undirected edges. Equal to
// EdgeCount for unweighted graphs.
func (g *SparseGraph) TotalWeight() float64 {
	return g.totalWeight
}

// Neighbors returns the neighbor indices and matching weights of node i.
// The returned slices alias internal storage and must not be modified.
func (g *SparseGraph) Neighbors(i int) ([]int, []float64) {
	lo, hi := g.rowOffsets[i], g.rowOffsets[i+1]
	return g.neighbors[lo:hi], g.weights[lo:hi]
}

// Degree returns the number of neighbors of node i.
func (g *SparseGraph) Degree(i int) int {
	return g.rowOffsets[i+1] - g.rowOffsets[i]
}

// Strength returns the weighted degree of node i.
func (g *SparseGraph) Strength(i int) float64 {
	return g.strength[i]
}

// Label returns the external identifier of node i.
func (g *SparseGraph) Label(i int) string {
	return g.labels[i]
}

// Labels returns a copy of all external identifiers in dense index order.
func (g *SparseGraph) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// Index returns the dense index for an external identifier.
func (g *SparseGraph) Index(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// RowOffsets returns the CSR row offsets. Callers must not modify it.
func (g *SparseGraph) RowOffsets() []int {
	return g.rowOffsets
}

// IsDegenerate reports whether no core-periphery structure can exist:
// fewer than two nodes or no edges.
func (g *SparseGraph) IsDegenerate() bool {
	return g.NodeCount() < 2 || g.totalWeight == 0
}

// Pairs returns C(N,2), the number of unordered node pairs.
func (g *SparseGraph) Pairs() float64 {
	n := float64(g.NodeCount())
	return n * (n - 1) / 2
}

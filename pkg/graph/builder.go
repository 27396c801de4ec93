package graph

import (
	"math"
	"sort"
)

// Builder accumulates nodes and undirected edges and compresses them into a
// SparseGraph. It is not safe for concurrent use.
type Builder struct {
	labels []string
	index  map[string]int
	adj    []map[int]float64
	err    error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// AddNode registers a node and returns its dense index. Adding an existing
// label returns the existing index.
func (b *Builder) AddNode(label string) int {
	if i, ok := b.index[label]; ok {
		return i
	}
	i := len(b.labels)
	b.labels = append(b.labels, label)
	b.index[label] = i
	b.adj = append(b.adj, make(map[int]float64))
	return i
}

// AddEdge adds an unweighted edge, creating missing endpoints.
func (b *Builder) AddEdge(u, v string) *Builder {
	return b.AddWeightedEdge(u, v, 1.0)
}

// AddWeightedEdge adds an undirected edge. Self loops are ignored and a
// repeated pair keeps its first weight. The first invalid weight is
// reported by Build.
func (b *Builder) AddWeightedEdge(u, v string, w float64) *Builder {
	if b.err != nil {
		return b
	}
	if !(w > 0) || math.IsInf(w, 0) {
		b.err = &GraphError{Op: "AddEdge", Node: u, Index: -1, Cause: ErrInvalidWeight,
			Context: "weights must be positive and finite"}
		return b
	}
	iu := b.AddNode(u)
	iv := b.AddNode(v)
	if iu == iv {
		return b
	}
	if _, exists := b.adj[iu][iv]; exists {
		return b
	}
	b.adj[iu][iv] = w
	b.adj[iv][iu] = w
	return b
}

// Build compresses the accumulated structure. Neighbor lists are sorted by
// index so the result is deterministic for a given insertion order.
func (b *Builder) Build() (*SparseGraph, error) {
	if b.err != nil {
		return nil, b.err
	}

	n := len(b.labels)
	offsets := make([]int, n+1)
	for i, row := range b.adj {
		offsets[i+1] = offsets[i] + len(row)
	}

	neighbors := make([]int, offsets[n])
	weights := make([]float64, offsets[n])
	for i, row := range b.adj {
		cols := make([]int, 0, len(row))
		for j := range row {
			cols = append(cols, j)
		}
		sort.Ints(cols)
		base := offsets[i]
		for k, j := range cols {
			neighbors[base+k] = j
			weights[base+k] = row[j]
		}
	}

	labels := make([]string, n)
	copy(labels, b.labels)

	g := &SparseGraph{
		rowOffsets: offsets,
		neighbors:  neighbors,
		weights:    weights,
		labels:     labels,
	}
	g.finish()
	return g, nil
}

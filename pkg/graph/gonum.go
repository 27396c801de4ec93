package graph

import (
	"math"
	"slices"
	"strconv"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// FromGonum compresses any gonum undirected graph. Node labels are the
// decimal gonum node IDs. Weights are taken from graph.Weighted when the
// input implements it, otherwise every edge weighs 1.
func FromGonum(src gonumgraph.Undirected) (*SparseGraph, error) {
	b := NewBuilder()
	weighted, isWeighted := src.(gonumgraph.Weighted)

	nodes := src.Nodes()
	ids := make([]int64, 0, max(nodes.Len(), 0))
	for nodes.Next() {
		ids = append(ids, nodes.Node().ID())
	}
	slices.Sort(ids)
	for _, id := range ids {
		b.AddNode(strconv.FormatInt(id, 10))
	}

	for _, uid := range ids {
		to := src.From(uid)
		for to.Next() {
			vid := to.Node().ID()
			if vid <= uid {
				continue
			}
			w := 1.0
			if isWeighted {
				if ww, ok := weighted.Weight(uid, vid); ok {
					w = ww
				}
			}
			b.AddWeightedEdge(strconv.FormatInt(uid, 10), strconv.FormatInt(vid, 10), w)
		}
	}
	return b.Build()
}

// Gonum exports the graph as a gonum weighted undirected graph whose node
// IDs are the dense indices. Used for algorithms gonum already provides,
// such as betweenness.
func (g *SparseGraph) Gonum() *simple.WeightedUndirectedGraph {
	out := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < g.NodeCount(); i++ {
		out.AddNode(simple.Node(int64(i)))
	}
	for u := 0; u < g.NodeCount(); u++ {
		nbrs, ws := g.Neighbors(u)
		for k, v := range nbrs {
			if v <= u {
				continue
			}
			out.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(int64(u)),
				T: simple.Node(int64(v)),
				W: ws[k],
			})
		}
	}
	return out
}

// Package coreness expands a binary core/periphery assignment into a
// continuous coreness score per node.
package coreness

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
	"github.com/dd0wney/cluso-coreperiphery/pkg/quality"
)

// Weights blend the three per-node signals. Each signal lies in [0,1].
type Weights struct {
	CoreFraction float64 `yaml:"core_fraction" validate:"gte=0"`
	Degree       float64 `yaml:"degree" validate:"gte=0"`
	Betweenness  float64 `yaml:"betweenness" validate:"gte=0"`
}

// OutlierPromotion forces nodes whose degree and betweenness are both more
// than one standard deviation above the mean into the core, with coreness
// at least Floor, whatever the optimizer decided.
type OutlierPromotion struct {
	Enabled bool    `yaml:"enabled"`
	Floor   float64 `yaml:"floor" validate:"gte=0,lte=1"`
}

// Deriver computes coreness from an assignment.
type Deriver struct {
	Weights   Weights          `yaml:"weights"`
	Promotion OutlierPromotion `yaml:"promotion"`
}

// Derivation is the output of Derive. Group reflects any promotions.
type Derivation struct {
	Coreness []float64
	Group    []uint8
	Promoted []int
}

// DefaultDeriver returns weights 0.30/0.35/0.35 with promotion enabled.
func DefaultDeriver() Deriver {
	return Deriver{
		Weights: Weights{
			CoreFraction: 0.30,
			Degree:       0.35,
			Betweenness:  0.35,
		},
		Promotion: OutlierPromotion{
			Enabled: true,
			Floor:   0.8,
		},
	}
}

// Derive blends core-neighbor fraction, relative degree and relative
// betweenness, applies outlier promotion, and min-max normalizes the result
// to [0,1]. A constant vector is returned as is, clamped to [0,1].
func (d Deriver) Derive(g *graph.SparseGraph, group []uint8) Derivation {
	n := g.NodeCount()
	out := Derivation{
		Coreness: make([]float64, n),
		Group:    make([]uint8, n),
	}
	copy(out.Group, group)
	if n == 0 {
		return out
	}

	fraction := make([]float64, n)
	degree := make([]float64, n)
	for u := 0; u < n; u++ {
		nbrs, _ := g.Neighbors(u)
		degree[u] = float64(len(nbrs))
		if len(nbrs) == 0 {
			continue
		}
		core := 0
		for _, v := range nbrs {
			if group[v] == quality.Core {
				core++
			}
		}
		fraction[u] = float64(core) / float64(len(nbrs))
	}
	between := Betweenness(g)

	relDegree := relative(degree)
	relBetween := relative(between)
	for u := 0; u < n; u++ {
		out.Coreness[u] = d.Weights.CoreFraction*fraction[u] +
			d.Weights.Degree*relDegree[u] +
			d.Weights.Betweenness*relBetween[u]
	}

	if d.Promotion.Enabled && n > 1 {
		degMean, degStd := stat.PopMeanStdDev(degree, nil)
		btwMean, btwStd := stat.PopMeanStdDev(between, nil)
		for u := 0; u < n; u++ {
			if degree[u] > degMean+degStd && between[u] > btwMean+btwStd {
				if out.Group[u] != quality.Core {
					out.Group[u] = quality.Core
					out.Promoted = append(out.Promoted, u)
				}
				out.Coreness[u] = max(out.Coreness[u], d.Promotion.Floor)
			}
		}
	}

	normalize(out.Coreness)
	return out
}

// Betweenness returns unnormalized shortest-path betweenness per dense
// index, computed by gonum over the graph's weighted export. Weights act as
// edge lengths only through hop counts: gonum's Betweenness is unweighted.
func Betweenness(g *graph.SparseGraph) []float64 {
	n := g.NodeCount()
	out := make([]float64, n)
	if n < 3 || g.EdgeCount() == 0 {
		return out
	}
	for id, b := range network.Betweenness(g.Gonum()) {
		out[id] = b
	}
	return out
}

// relative divides by the maximum; an all-zero vector stays zero.
func relative(v []float64) []float64 {
	out := make([]float64, len(v))
	hi := floats.Max(v)
	if hi <= 0 {
		return out
	}
	floats.ScaleTo(out, 1/hi, v)
	return out
}

func normalize(v []float64) {
	lo, hi := floats.Min(v), floats.Max(v)
	if hi > lo {
		floats.AddConst(-lo, v)
		floats.Scale(1/(hi-lo), v)
		return
	}
	for i := range v {
		v[i] = min(max(v[i], 0), 1)
	}
}

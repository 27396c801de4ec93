// Package synth generates small deterministic graphs with known
// core-periphery structure for tests and benchmarks.
package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/dd0wney/cluso-coreperiphery/pkg/graph"
)

var (
	ErrTooFewNodes        = errors.New("too few nodes")
	ErrInvalidProbability = errors.New("probability outside [0,1]")
)

// CenterLabel is the hub label produced by Star.
const CenterLabel = "center"

// Star returns one hub connected to n-1 leaves labelled leaf1..leaf{n-1}.
func Star(n int) (*graph.SparseGraph, error) {
	if n < 2 {
		return nil, fmt.Errorf("Star: n=%d: %w", n, ErrTooFewNodes)
	}
	b := graph.NewBuilder()
	b.AddNode(CenterLabel)
	for i := 1; i < n; i++ {
		b.AddEdge(CenterLabel, fmt.Sprintf("leaf%d", i))
	}
	return b.Build()
}

// Clique returns the complete graph on n nodes labelled with prefix.
func Clique(n int, prefix string) (*graph.SparseGraph, error) {
	if n < 1 {
		return nil, fmt.Errorf("Clique: n=%d: %w", n, ErrTooFewNodes)
	}
	b := graph.NewBuilder()
	addClique(b, prefix, n)
	return b.Build()
}

// TwoCliquesBridge returns two disjoint k-cliques (a0..a{k-1} and
// b0..b{k-1}) joined by the single edge a0-b0.
func TwoCliquesBridge(k int) (*graph.SparseGraph, error) {
	if k < 2 {
		return nil, fmt.Errorf("TwoCliquesBridge: k=%d: %w", k, ErrTooFewNodes)
	}
	b := graph.NewBuilder()
	addClique(b, "a", k)
	addClique(b, "b", k)
	b.AddEdge("a0", "b0")
	return b.Build()
}

// Planted describes a two-block stochastic model with a core of CoreSize
// nodes and a periphery of PeripherySize nodes.
type Planted struct {
	CoreSize      int
	PeripherySize int
	PCoreCore     float64
	PCorePeri     float64
	PPeriPeri     float64
	Seed          uint64
}

// PlantedCorePeriphery samples a Planted model. Core nodes are labelled
// c0.., periphery nodes p0.., and trial order is fixed so a given Seed
// always yields the same graph.
func PlantedCorePeriphery(cfg Planted) (*graph.SparseGraph, error) {
	if cfg.CoreSize < 1 || cfg.PeripherySize < 0 {
		return nil, fmt.Errorf("PlantedCorePeriphery: core=%d periphery=%d: %w",
			cfg.CoreSize, cfg.PeripherySize, ErrTooFewNodes)
	}
	for _, p := range []float64{cfg.PCoreCore, cfg.PCorePeri, cfg.PPeriPeri} {
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("PlantedCorePeriphery: p=%.4f: %w", p, ErrInvalidProbability)
		}
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5bd1e995))
	b := graph.NewBuilder()

	n := cfg.CoreSize + cfg.PeripherySize
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		if i < cfg.CoreSize {
			labels[i] = fmt.Sprintf("c%d", i)
		} else {
			labels[i] = fmt.Sprintf("p%d", i-cfg.CoreSize)
		}
		b.AddNode(labels[i])
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p := cfg.PPeriPeri
			switch {
			case i < cfg.CoreSize && j < cfg.CoreSize:
				p = cfg.PCoreCore
			case i < cfg.CoreSize || j < cfg.CoreSize:
				p = cfg.PCorePeri
			}
			if rng.Float64() < p {
				b.AddEdge(labels[i], labels[j])
			}
		}
	}
	return b.Build()
}

func addClique(b *graph.Builder, prefix string, n int) {
	for i := 0; i < n; i++ {
		b.AddNode(fmt.Sprintf("%s%d", prefix, i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			b.AddEdge(fmt.Sprintf("%s%d", prefix, i), fmt.Sprintf("%s%d", prefix, j))
		}
	}
}

package synth

import (
	"errors"
	"testing"
)

func TestStar(t *testing.T) {
	g, err := Star(5)
	if err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	if g.NodeCount() != 5 || g.EdgeCount() != 4 {
		t.Errorf("got N=%d M=%d, want 5 and 4", g.NodeCount(), g.EdgeCount())
	}
	c, ok := g.Index(CenterLabel)
	if !ok || g.Degree(c) != 4 {
		t.Errorf("center degree = %d, want 4", g.Degree(c))
	}

	if _, err := Star(1); !errors.Is(err, ErrTooFewNodes) {
		t.Errorf("Star(1) error = %v, want ErrTooFewNodes", err)
	}
}

func TestTwoCliquesBridge(t *testing.T) {
	g, err := TwoCliquesBridge(5)
	if err != nil {
		t.Fatalf("TwoCliquesBridge failed: %v", err)
	}
	// 2 * C(5,2) + 1
	if g.EdgeCount() != 21 {
		t.Errorf("EdgeCount = %d, want 21", g.EdgeCount())
	}
	a0, _ := g.Index("a0")
	if g.Degree(a0) != 5 {
		t.Errorf("bridge endpoint degree = %d, want 5", g.Degree(a0))
	}
}

func TestPlantedDeterministic(t *testing.T) {
	cfg := Planted{CoreSize: 10, PeripherySize: 30, PCoreCore: 0.9, PCorePeri: 0.3, PPeriPeri: 0.02, Seed: 7}

	g1, err := PlantedCorePeriphery(cfg)
	if err != nil {
		t.Fatalf("PlantedCorePeriphery failed: %v", err)
	}
	g2, _ := PlantedCorePeriphery(cfg)

	if g1.EdgeCount() != g2.EdgeCount() {
		t.Errorf("same seed gave %d and %d edges", g1.EdgeCount(), g2.EdgeCount())
	}
	if g1.NodeCount() != 40 {
		t.Errorf("NodeCount = %d, want 40", g1.NodeCount())
	}
}

func TestPlantedInvalid(t *testing.T) {
	_, err := PlantedCorePeriphery(Planted{CoreSize: 3, PeripherySize: 3, PCoreCore: 1.5})
	if !errors.Is(err, ErrInvalidProbability) {
		t.Errorf("error = %v, want ErrInvalidProbability", err)
	}
}

package graph

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/graph/simple"
)

func buildTriangleWithTail(t *testing.T) *SparseGraph {
	t.Helper()
	g, err := NewBuilder().
		AddEdge("a", "b").
		AddEdge("b", "c").
		AddEdge("c", "a").
		AddEdge("c", "d").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestBuilder_Basic(t *testing.T) {
	g := buildTriangleWithTail(t)

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount = %d, want 4", g.NodeCount())
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount = %d, want 4", g.EdgeCount())
	}
	if g.TotalWeight() != 4 {
		t.Errorf("TotalWeight = %v, want 4", g.TotalWeight())
	}

	c, ok := g.Index("c")
	if !ok {
		t.Fatal("label c not indexed")
	}
	if g.Degree(c) != 3 {
		t.Errorf("Degree(c) = %d, want 3", g.Degree(c))
	}
	if g.Label(c) != "c" {
		t.Errorf("Label(%d) = %q", c, g.Label(c))
	}
	if err := g.Validate(); err != nil {
		t.Errorf("built graph fails validation: %v", err)
	}
}

func TestBuilder_SelfLoopsAndDuplicates(t *testing.T) {
	g, err := NewBuilder().
		AddWeightedEdge("a", "b", 2.0).
		AddWeightedEdge("b", "a", 5.0).
		AddEdge("a", "a").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if g.TotalWeight() != 2.0 {
		t.Errorf("TotalWeight = %v, want first weight 2.0", g.TotalWeight())
	}
	a, _ := g.Index("a")
	if g.Strength(a) != 2.0 {
		t.Errorf("Strength(a) = %v, want 2.0", g.Strength(a))
	}
}

func TestBuilder_InvalidWeight(t *testing.T) {
	_, err := NewBuilder().AddWeightedEdge("a", "b", -1).Build()
	if !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}

	var gerr *GraphError
	if !errors.As(err, &gerr) || gerr.Op != "AddEdge" {
		t.Errorf("expected *GraphError with Op AddEdge, got %#v", err)
	}
}

func TestDegenerate(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		want bool
	}{
		{"empty", NewBuilder(), true},
		{"single node", func() *Builder { b := NewBuilder(); b.AddNode("x"); return b }(), true},
		{"isolated pair", func() *Builder { b := NewBuilder(); b.AddNode("x"); b.AddNode("y"); return b }(), true},
		{"one edge", NewBuilder().AddEdge("x", "y"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := tt.b.Build()
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if got := g.IsDegenerate(); got != tt.want {
				t.Errorf("IsDegenerate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromCSR(t *testing.T) {
	// path 0-1-2
	g, err := FromCSR([]int{0, 1, 3, 4}, []int{1, 0, 2, 1}, nil, nil)
	if err != nil {
		t.Fatalf("FromCSR failed: %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	if g.Label(2) != "2" {
		t.Errorf("default label = %q, want \"2\"", g.Label(2))
	}
}

func TestFromCSR_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		offsets   []int
		neighbors []int
		weights   []float64
		labels    []string
		cause     error
	}{
		{"no offsets", nil, nil, nil, nil, ErrInvalidCSR},
		{"decreasing", []int{0, 2, 1}, []int{1, 0}, nil, nil, ErrInvalidCSR},
		{"length mismatch", []int{0, 1, 1}, []int{1, 0}, nil, nil, ErrInvalidCSR},
		{"asymmetric", []int{0, 1, 1}, []int{1}, nil, nil, ErrInvalidCSR},
		{"self loop", []int{0, 1}, []int{0}, nil, nil, ErrInvalidCSR},
		{"out of range", []int{0, 1, 2}, []int{5, 0}, nil, nil, ErrInvalidCSR},
		{"asymmetric weight", []int{0, 1, 2}, []int{1, 0}, []float64{1, 5}, nil, ErrInvalidCSR},
		{"zero weight", []int{0, 1, 2}, []int{1, 0}, []float64{0, 0}, nil, ErrInvalidWeight},
		{"duplicate label", []int{0, 1, 2}, []int{1, 0}, nil, []string{"x", "x"}, ErrDuplicateNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCSR(tt.offsets, tt.neighbors, tt.weights, tt.labels)
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected %v, got %v", tt.cause, err)
			}
		})
	}
}

func TestGonumRoundTrip(t *testing.T) {
	src := simple.NewUndirectedGraph()
	for i := int64(0); i < 4; i++ {
		src.AddNode(simple.Node(i * 10))
	}
	src.SetEdge(simple.Edge{F: simple.Node(0), T: simple.Node(10)})
	src.SetEdge(simple.Edge{F: simple.Node(10), T: simple.Node(20)})
	src.SetEdge(simple.Edge{F: simple.Node(20), T: simple.Node(30)})

	g, err := FromGonum(src)
	if err != nil {
		t.Fatalf("FromGonum failed: %v", err)
	}
	if g.NodeCount() != 4 || g.EdgeCount() != 3 {
		t.Fatalf("got N=%d M=%d, want 4 and 3", g.NodeCount(), g.EdgeCount())
	}
	if _, ok := g.Index("30"); !ok {
		t.Error("gonum ID 30 should become label \"30\"")
	}

	out := g.Gonum()
	if out.Nodes().Len() != 4 {
		t.Errorf("exported node count = %d", out.Nodes().Len())
	}
	i10, _ := g.Index("10")
	i20, _ := g.Index("20")
	if !out.HasEdgeBetween(int64(i10), int64(i20)) {
		t.Error("exported graph lost edge 10-20")
	}
}

func TestLabelsIsCopy(t *testing.T) {
	g := buildTriangleWithTail(t)
	labels := g.Labels()
	labels[0] = "mutated"
	if g.Label(0) == "mutated" {
		t.Error("Labels() must not expose internal storage")
	}
}

package continuous

import "math"

// Shape maps a 0-indexed rank to a coreness value. Ranks up to
// floor(beta*n) form the periphery and rise linearly to (1-alpha)/2; the
// remaining ranks rise from (1+alpha)/2 towards 1. alpha sets the jump
// between the two segments, beta the periphery fraction. When
// floor(beta*n) is 0 the whole graph uses the core segment.
func Shape(rank, n int, alpha, beta float64) float64 {
	bn := peripheryBound(n, beta)
	r := float64(rank)
	if bn > 0 && rank <= bn {
		return (1 - alpha) / (2 * float64(bn)) * r
	}
	return (r-float64(bn))*(1-alpha)/(2*float64(n-bn)) + (1+alpha)/2
}

// Classify labels nodes with rank above floor(beta*n) as core (1) and the
// rest as periphery (0). With floor(beta*n) == 0 every node is core.
func Classify(ranks []int, beta float64) []uint8 {
	n := len(ranks)
	bn := peripheryBound(n, beta)
	group := make([]uint8, n)
	for i, r := range ranks {
		if bn == 0 || r > bn {
			group[i] = 1
		}
	}
	return group
}

// corenessVector evaluates Shape for every node.
func corenessVector(ranks []int, alpha, beta float64) []float64 {
	n := len(ranks)
	x := make([]float64, n)
	for i, r := range ranks {
		x[i] = Shape(r, n, alpha, beta)
	}
	return x
}

func peripheryBound(n int, beta float64) int {
	return int(math.Floor(beta * float64(n)))
}

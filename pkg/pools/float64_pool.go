package pools

import (
	"math/bits"
	"sync"
)

// Size classes run from 1<<minClass to 1<<maxClass elements.
const (
	minClass = 6  // 64 elements
	maxClass = 22 // ~4M elements; larger slices are not pooled
)

// Float64Pool pools zeroed float64 slices by power-of-two capacity.
type Float64Pool struct {
	classes [maxClass - minClass + 1]sync.Pool
}

// NewFloat64Pool creates a new float64 slice pool.
func NewFloat64Pool() *Float64Pool {
	return &Float64Pool{}
}

// class returns the index of the smallest class holding size elements, or
// -1 when size is too large to pool.
func class(size int) int {
	if size <= 1<<minClass {
		return 0
	}
	c := bits.Len(uint(size - 1))
	if c > maxClass {
		return -1
	}
	return c - minClass
}

// Get returns a zeroed slice of length size.
func (p *Float64Pool) Get(size int) []float64 {
	c := class(size)
	if c < 0 {
		return make([]float64, size)
	}

	sp, ok := p.classes[c].Get().(*[]float64)
	if !ok || cap(*sp) < size {
		return make([]float64, size, 1<<(c+minClass))
	}
	s := (*sp)[:size]
	clear(s)
	return s
}

// Put returns a slice to the pool. Slices whose capacity is not an exact
// size class are dropped.
func (p *Float64Pool) Put(s []float64) {
	c := class(cap(s))
	if c < 0 || cap(s) != 1<<(c+minClass) {
		return
	}
	s = s[:0]
	p.classes[c].Put(&s)
}

// Default global float64 pool
var defaultFloat64Pool = NewFloat64Pool()

// GetFloat64s returns a zeroed float64 slice from the default pool.
func GetFloat64s(size int) []float64 {
	return defaultFloat64Pool.Get(size)
}

// PutFloat64s returns a float64 slice to the default pool.
func PutFloat64s(s []float64) {
	defaultFloat64Pool.Put(s)
}

// Package util provides helpers shared by tests and benchmarks.
package util

import (
	"math/rand"
	"sync"
)

// RNG encapsulates a seeded random number generator for reproducible point
// sets. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates n 3-D points with components in [0, scale).
func (r *RNG) UniformPoints(n int, scale float64) [][]float64 {
	return r.UniformPointsRange(n, 0, scale)
}

// UniformPointsRange generates n 3-D points with components in
// [minVal, maxVal). Uses a single backing array and locks only once per call.
func (r *RNG) UniformPointsRange(n int, minVal, maxVal float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	data := make([]float64, n*3)
	points := make([][]float64, n)

	for i := range points {
		p := data[i*3 : (i+1)*3 : (i+1)*3]
		for j := range p {
			p[j] = minVal + r.rand.Float64()*span
		}
		points[i] = p
	}

	return points
}

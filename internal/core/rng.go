package core

import (
	"math"
	"math/rand/v2"
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Direction returns a unit vector with a uniformly drawn angle.
func (r *RNG) Direction() (float32, float32) {
	theta := 2 * math.Pi * r.r.Float64()
	s, c := math.Sincos(theta)
	return float32(c), float32(s)
}

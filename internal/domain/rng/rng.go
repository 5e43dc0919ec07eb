// Package rng holds the sampling helpers shared by the simulation packages.
// Every draw goes through a caller-owned Source so a batch stays reproducible
// from its seed.
package rng

import "math/rand/v2"

type Source interface {
	Float64() float64
}

// New returns the per-batch generator for seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Index draws an integer in [0, n).
func Index(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

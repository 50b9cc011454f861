// Package dice provides the seeded randomness injected into encounters.
package dice

import (
	"math/rand/v2"
	"time"
)

// counting wraps a source and counts draws so a run can be described by
// (seed, position) in logs.
type counting struct {
	src rand.Source
	n   uint64
}

func (c *counting) Uint64() uint64 {
	c.n++
	return c.src.Uint64()
}

// RNG is a deterministic random number generator. The same seed always
// produces the same sequence of spawns.
type RNG struct {
	seed uint64
	src  *counting
	r    *rand.Rand
}

// NewRNG creates an RNG from seed.
func NewRNG(seed uint64) *RNG {
	src := &counting{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	return &RNG{seed: seed, src: src, r: rand.New(src)}
}

// NewTimeSeeded creates an RNG seeded from the wall clock.
func NewTimeSeeded() *RNG {
	return NewRNG(uint64(time.Now().UnixNano()))
}

// IntN returns a random integer in [0, n).
func (r *RNG) IntN(n int) int {
	return r.r.IntN(n)
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.r.IntN(sides) + 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Position returns the number of raw draws taken from the source.
func (r *RNG) Position() uint64 {
	return r.src.n
}

// Package rng provides the process-wide random source shared by the
// scheduling solver, hill climber and shotgun driver. A single mutex-guarded
// generator is the simplest faithful rendition of the pipeline's shared
// Mersenne-Twister-equivalent stream; math/rand/v2's PCG is this module's
// stdlib-adjacent substitute since no third-party RNG appears anywhere in
// the example pack.
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source is a goroutine-safe random source. Each worker may hold its own
// Source seeded from a central stream (a permitted deviation per spec §5),
// or every worker may share one guarded Source; both are supported since
// all methods take their own lock.
type Source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Source seeded from two uint64 seeds.
func New(seed1, seed2 uint64) *Source {
	return &Source{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewFromEntropy returns a Source seeded from the runtime's entropy source.
func NewFromEntropy() *Source {
	return New(rand.Uint64(), rand.Uint64())
}

// IntN returns a uniform random int in [0, n).
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.IntN(n)
}

// Float64 returns a uniform random float64 in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.Float64()
}

// Uint64 returns a uniform random uint64, used to derive a per-worker seed
// from a shared central stream.
func (s *Source) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.Uint64()
}

// Shuffle randomizes the order of a slice of length n using swap(i, j).
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rnd.Shuffle(n, swap)
}

// Derive returns a new, independent Source seeded deterministically from
// this one, for handing a private stream to a new worker goroutine.
func (s *Source) Derive() *Source {
	return New(s.Uint64(), s.Uint64())
}

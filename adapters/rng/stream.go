// Package rng provides the deterministic seeded stream source behind
// ports.RNGPort. Every stochastic component in a run draws from a named
// stream, so the whole run replays bit-for-bit from one base seed.
package rng

import (
	"hash/fnv"
	"math/rand/v2"
)

// Source hands out named PCG streams. The stream name is hashed into the
// second seed word, so distinct names give independent sequences under the
// same base seed while identical (name, seed) pairs always replay.
type Source struct{}

// NewSource creates a stream source.
func NewSource() *Source {
	return &Source{}
}

// SeededStream creates a deterministic random number generator for a named
// operation.
func (s *Source) SeededStream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewPCG(uint64(seed), h.Sum64()))
}

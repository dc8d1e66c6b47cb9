package ports

import (
	"math/rand/v2"
)

// RNGPort provides seeded random number generation for deterministic runs.
// Streams with the same name and seed replay the exact same sequence, so any
// consumer wired to a named stream is reproducible end to end.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation. Distinct names yield statistically independent
	// streams under the same base seed.
	SeededStream(name string, seed int64) *rand.Rand
}

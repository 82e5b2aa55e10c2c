package testutil

import "math/rand/v2"

// SeededRand returns a deterministic uniform 64-bit source for identifier
// generation in tests. The same seed always yields the same sequence.
func SeededRand(seed uint64) func() uint64 {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Uint64
}

// SequenceRand returns a source that yields the given values in order and
// then falls back to a seeded source. Tests use it to force specific
// identifier collisions.
func SequenceRand(values ...uint64) func() uint64 {
	fallback := SeededRand(1)
	i := 0
	return func() uint64 {
		if i < len(values) {
			v := values[i]
			i++
			return v
		}
		return fallback()
	}
}

package hexwar40k

import "math/rand"

// Rand wraps a single math/rand source per episode. Every die roll in
// the engine goes through this one instance so that reset(seed) +
// step* is fully reproducible (spec.md §4.3, P6).
type Rand struct {
	src *rand.Rand
}

// NewRand seeds a fresh PRNG. Grounded on the teacher's former
// core.go GetRNG() pattern: one rand.Rand owned by the top-level game
// object, never a package-global source.
func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

// D6 rolls a single six-sided die, returning 1..6.
func (r *Rand) D6() int { return r.src.Intn(6) + 1 }

// D6x2 rolls 2d6 and returns the sum, used for charge rolls.
func (r *Rand) D6x2() int { return r.D6() + r.D6() }

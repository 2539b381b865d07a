package rule

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic
// seeding of soup patterns.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// StateN returns a random state in [0, states).
func (r *RNG) StateN(states uint8) uint8 {
	if states == 0 {
		return 0
	}
	return uint8(r.r.IntN(int(states)))
}

// FillStates fills the buffer with random states in [0, states), leaving a
// cell zero with probability 1-density.
func (r *RNG) FillStates(buf []uint8, states uint8, density float64) {
	for i := range buf {
		if r.r.Float64() >= density {
			buf[i] = 0
			continue
		}
		s := r.StateN(states-1) + 1
		buf[i] = s
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }

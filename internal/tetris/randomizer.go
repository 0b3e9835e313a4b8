package tetris

import (
	"math/rand"
	"time"
)

// Randomizer picks the kind of the next piece.
type Randomizer interface {
	Next() Kind
}

// UniformRandomizer draws every kind with equal probability, independent of
// history. Droughts and immediate repeats are possible.
type UniformRandomizer struct {
	rng *rand.Rand
}

// NewUniformRandomizer creates a randomizer from a seed.
// A zero seed uses the current time.
func NewUniformRandomizer(seed int64) *UniformRandomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &UniformRandomizer{rng: rand.New(rand.NewSource(seed))}
}

// Next returns a uniformly random piece kind.
func (u *UniformRandomizer) Next() Kind {
	return Kinds[u.rng.Intn(len(Kinds))]
}

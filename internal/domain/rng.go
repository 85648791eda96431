package domain

import (
	"math"
	"math/rand"
)

// mathSource is the default RandomSource backed by math/rand. Not
// goroutine-safe on its own; the engine serializes all access.
type mathSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a seeded RandomSource. The same seed reproduces
// the same draw sequence, which tests rely on.
func NewRandomSource(seed int64) RandomSource {
	return &mathSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *mathSource) Float64() float64 { return s.rng.Float64() }

func (s *mathSource) Uniform(min, max float64) float64 {
	return min + (max-min)*s.rng.Float64()
}

func (s *mathSource) Intn(n int) int { return s.rng.Intn(n) }

// SkewedUniform draws from [min, max) with a u^1.5 power skew, biasing
// toward the low end. Used for base price generation.
func SkewedUniform(src RandomSource, min, max float64) float64 {
	return min + (max-min)*math.Pow(src.Float64(), 1.5)
}

// Chance rolls a probability in [0, 1].
func Chance(src RandomSource, p float64) bool {
	return src.Float64() < p
}

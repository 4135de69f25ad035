package game

import "math/rand"

// RNG is the randomness source GameState draws on for shuffling and
// probability-weighted sampling. Callers seeking determinism inject their
// own implementation; production code uses SystemRNG.
//
//go:generate mockgen -destination=mock/mock_rng.go -package=mock github.com/nthieu173/disastle/internal/game RNG
type RNG interface {
	// Intn returns a random int in [0, n).
	Intn(n int) int
	// Shuffle randomizes the order of n elements via swap.
	Shuffle(n int, swap func(i, j int))
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// SystemRNG wraps math/rand.Rand to satisfy RNG.
type SystemRNG struct {
	r *rand.Rand
}

// NewSystemRNG seeds a SystemRNG from seed.
func NewSystemRNG(seed int64) *SystemRNG {
	return &SystemRNG{r: rand.New(rand.NewSource(seed))}
}

func (s *SystemRNG) Intn(n int) int                      { return s.r.Intn(n) }
func (s *SystemRNG) Shuffle(n int, swap func(i, j int))  { s.r.Shuffle(n, swap) }
func (s *SystemRNG) Float64() float64                    { return s.r.Float64() }

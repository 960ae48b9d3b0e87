package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"gowoa/ports"
)

// MaxSeed bounds generated optimizer seeds to [1, MaxSeed].
const MaxSeed = 100000

// RandomSeedSource draws a fresh seed for every benchmark request.
type RandomSeedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ ports.SeedSource = (*RandomSeedSource)(nil)

// NewRandomSeedSource seeds from the clock
func NewRandomSeedSource() *RandomSeedSource {
	return &RandomSeedSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NextSeed returns a seed in [1, MaxSeed]
func (s *RandomSeedSource) NextSeed(_ context.Context) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63n(MaxSeed) + 1
}

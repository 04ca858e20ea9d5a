package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Source abstracts the randomness used by pack rolling so tests can supply
// deterministic sequences.
type Source interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// Intn returns a uniform draw in [0, n). n must be positive.
	Intn(n int) int
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewTimeSeeded returns a goroutine-safe source seeded from the clock.
func NewTimeSeeded() Source {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a goroutine-safe source with a fixed seed.
func NewSeeded(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

package dice

import (
	"math/rand"
	"sync"
)

// Source is the randomness provider behind the random roller
type Source interface {
	// Intn returns a random int in [0, n). n is always positive.
	Intn(n int) int
}

// globalSource draws from the process wide math/rand generator
type globalSource struct{}

// NewGlobalSource returns a Source backed by the process wide generator
func NewGlobalSource() Source {
	return globalSource{}
}

func (globalSource) Intn(n int) int {
	return rand.Intn(n)
}

// seededSource is a reproducible Source. *rand.Rand is not safe for
// concurrent use so access is serialized.
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a Source that replays the same sequence for the
// same seed
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

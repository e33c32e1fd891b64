package common

import (
	"math/rand"
	"sync"
)

// Rand is a mutex-guarded rand.Rand. Updates are handled on goroutines,
// and a bare *rand.Rand is not safe for concurrent use. Tests inject a
// seeded source for deterministic outcomes.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand wraps a rand source.
func NewRand(src rand.Source) *Rand {
	return &Rand{r: rand.New(src)}
}

// Intn returns a uniform int in [0, n).
func (l *Rand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Float64 returns a uniform float64 in [0, 1).
func (l *Rand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Between returns a uniform int in [min, max] inclusive.
func (l *Rand) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + l.Intn(max-min+1)
}

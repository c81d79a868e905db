package random

import (
	crand "crypto/rand"
	"math/rand/v2"
	"strings"
	"sync"
)

// Alphanumeric is the alphabet used for generated identifiers
const Alphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// Random is the source of every shuffle and generated id. Implementations
// must be safe for use from many game sessions at once.
type Random interface {
	// Intn returns a uniform int in [0, n), or 0 when n <= 0
	Intn(n int) int

	// String returns length characters drawn uniformly from alphabet
	String(length int, alphabet string) string
}

// Source is a ChaCha8 generator seeded from the operating system
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Source with a fresh random seed
func New() *Source {
	var seed [32]byte
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = crand.Read(seed[:])
	return NewSeeded(seed)
}

// NewSeeded creates a Source that replays the sequence for seed
func NewSeeded(seed [32]byte) *Source {
	return &Source{rng: rand.New(rand.NewChaCha8(seed))}
}

// Intn implements Random
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// String implements Random
func (s *Source) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(alphabet[s.rng.IntN(len(alphabet))])
	}
	return b.String()
}

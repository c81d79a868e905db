package mocks

import (
	"sync"

	"github.com/mcoot/holdem/internal/dependencies/random"
)

// MockRandom replays queued values. Once a queue runs dry Intn returns 0
// and String returns "", which id generators treat as a collision.
type MockRandom struct {
	mu      sync.Mutex
	ints    []int
	strings []string

	// intnCalls records the n passed to each Intn, in order
	intnCalls []int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom returns a MockRandom with empty queues
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intnCalls = append(r.intnCalls, n)
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v
}

func (r *MockRandom) String(int, string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.strings) == 0 {
		return ""
	}
	v := r.strings[0]
	r.strings = r.strings[1:]
	return v
}

// QueueIntn appends Intn results
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, values...)
}

// QueueString appends String results; table and player ids are drawn here
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings = append(r.strings, values...)
}

// PendingStrings returns how many queued String results are unused
func (r *MockRandom) PendingStrings() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.strings)
}

// IntnCalls returns the bound passed to every Intn call so far
func (r *MockRandom) IntnCalls() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.intnCalls...)
}

// Reset drops queued values and recorded calls
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints, r.strings, r.intnCalls = nil, nil, nil
}

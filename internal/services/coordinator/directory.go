package coordinator

import (
	"sync"

	"github.com/mcoot/holdem/internal/model"
)

// directory orders the table directory writes of each game. Sequence
// numbers are taken inside a game's critical section, so they follow the
// order the game changed in, across sessions that reuse the same id. A
// write older than the last one applied for its game is dropped.
type directory struct {
	mu    sync.Mutex
	seq   uint64
	games map[model.GameID]*gameWrites
}

type gameWrites struct {
	mu      sync.Mutex
	applied uint64
	pending int
}

func newDirectory() *directory {
	return &directory{games: make(map[model.GameID]*gameWrites)}
}

// stamp reserves the next sequence number for a write to id. Every stamp
// must be followed by exactly one write.
func (d *directory) stamp(id model.GameID) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	w, ok := d.games[id]
	if !ok {
		w = &gameWrites{}
		d.games[id] = w
	}
	w.pending++
	return d.seq
}

// write runs fn unless a newer write for id has already run, and reports
// whether it ran. Writes for one game never overlap.
func (d *directory) write(id model.GameID, seq uint64, fn func()) bool {
	d.mu.Lock()
	w := d.games[id]
	d.mu.Unlock()

	w.mu.Lock()
	current := seq > w.applied
	if current {
		w.applied = seq
		fn()
	}
	w.mu.Unlock()

	d.mu.Lock()
	w.pending--
	if w.pending == 0 {
		delete(d.games, id)
	}
	d.mu.Unlock()
	return current
}

// tracked returns the number of games with writes in flight
func (d *directory) tracked() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.games)
}

package testutil

import (
	"errors"
	"sync"

	"github.com/mcoot/holdem/internal/model"
)

// ErrConnFailed is returned by a RecordingConn set to fail
var ErrConnFailed = errors.New("connection failed")

// RecordingConn captures the messages sent to one player
type RecordingConn struct {
	mu       sync.Mutex
	messages []model.Message
	fail     bool
	closed   bool
}

// NewRecordingConn creates a connection that accepts every message
func NewRecordingConn() *RecordingConn {
	return &RecordingConn{}
}

// Send records msg, or fails once the connection is closed or set to fail
func (c *RecordingConn) Send(msg model.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail || c.closed {
		return ErrConnFailed
	}
	c.messages = append(c.messages, msg)
	return nil
}

// Close marks the connection closed
func (c *RecordingConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Fail makes every later Send return an error
func (c *RecordingConn) Fail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = true
}

// Closed reports whether Close was called
func (c *RecordingConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Messages returns a copy of everything recorded so far
func (c *RecordingConn) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Message(nil), c.messages...)
}

// OfType returns the recorded messages of type t
func (c *RecordingConn) OfType(t model.MessageType) []model.Message {
	var out []model.Message
	for _, m := range c.Messages() {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// LastState returns the most recent gameState payload
func (c *RecordingConn) LastState() (model.GameView, bool) {
	states := c.OfType(model.MessageGameState)
	if len(states) == 0 {
		return model.GameView{}, false
	}
	view, ok := states[len(states)-1].Payload.(model.GameView)
	return view, ok
}

// Reset discards recorded messages
func (c *RecordingConn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/holdem/internal/model"
)

const streamWriteWait = 10 * time.Second

// Frame is a message received from the game server, with its payload left
// encoded until the caller knows which type to decode it into
type Frame struct {
	Type    model.MessageType `json:"type"`
	Payload json.RawMessage   `json:"payload"`
}

// Decode unmarshals the payload into v
func (f Frame) Decode(v any) error {
	if err := json.Unmarshal(f.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", f.Type, err)
	}
	return nil
}

// Stream is a websocket connection to one seat at a game
type Stream struct {
	conn *websocket.Conn
	mu   sync.Mutex // serialises writers
}

// DialStream connects to the game endpoint at wsURL
func DialStream(ctx context.Context, wsURL string) (*Stream, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return nil, fmt.Errorf("connection refused: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return &Stream{conn: conn}, nil
}

// Next blocks until the server sends a frame. A clean close by the server
// is reported as ErrStreamClosed.
func (s *Stream) Next() (Frame, error) {
	var f Frame
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return f, ErrStreamClosed
		}
		return f, err
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("malformed frame: %w", err)
	}
	return f, nil
}

// ErrStreamClosed is returned by Next once the server has closed the game
var ErrStreamClosed = errors.New("connection closed by server")

// SendAction submits a betting decision
func (s *Stream) SendAction(action model.Action) error {
	payload := map[string]any{"type": action.Type}
	if action.Type == model.ActionBet || action.Type == model.ActionRaise {
		payload["amount"] = action.Amount
	}
	return s.send(model.MessageAction, payload)
}

// SendChat posts a chat line to the table
func (s *Stream) SendChat(text string) error {
	return s.send(model.MessageChat, map[string]string{"text": text})
}

// SendHeartbeat asks the server for a heartbeat_ack
func (s *Stream) SendHeartbeat() error {
	return s.send(model.MessageHeartbeat, nil)
}

func (s *Stream) send(t model.MessageType, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return s.conn.WriteJSON(model.Message{Type: t, Payload: payload})
}

// Close sends a close frame and releases the connection
func (s *Stream) Close() error {
	s.mu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait))
	s.mu.Unlock()
	return s.conn.Close()
}

package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"reflect"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"

	"github.com/mcoot/holdem/internal/dependencies/clock"
	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/coordinator"
)

// Handler upgrades /ws requests and relays frames between a player's
// websocket and the coordinator
type Handler struct {
	coordinator *coordinator.Coordinator
	clock       clock.Clock
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewHandler creates a new websocket Handler
func NewHandler(coordinator *coordinator.Coordinator, clock clock.Clock, logger *slog.Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		clock:       clock,
		logger:      logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /ws?table=<id>&password=<pw>&name=<name>. Without a
// table the player is quick-seated.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(conn, h.logger)
	go client.WritePump()

	query := r.URL.Query()
	joined, err := h.coordinator.Join(r.Context(), coordinator.JoinRequest{
		TableID:  model.GameID(query.Get("table")),
		Password: query.Get("password"),
		Name:     query.Get("name"),
	}, client)
	if err != nil {
		h.logger.Info("join rejected",
			slog.String("table", query.Get("table")),
			slog.String("error", err.Error()),
		)
		_ = client.Send(model.NewErrorMessage(JoinErrorMessage(err)))
		client.Close()
		return
	}

	logger := h.logger.With(
		slog.String("game_id", string(joined.GameID)),
		slog.String("player_id", string(joined.PlayerID)),
	)
	defer func() {
		err := h.coordinator.Disconnect(context.Background(), joined.GameID, joined.PlayerID)
		if err != nil && !errors.Is(err, model.ErrGameNotFound) {
			logger.Warn("disconnect failed", slog.String("error", err.Error()))
		}
		client.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	client.extendDeadline()
	conn.SetPongHandler(func(string) error {
		client.extendDeadline()
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Info("websocket closed unexpectedly", slog.String("error", err.Error()))
			}
			return
		}
		if stop := h.dispatch(r.Context(), client, joined, data, logger); stop {
			return
		}
	}
}

// dispatch handles one inbound frame. It reports whether the connection
// should be dropped.
func (h *Handler) dispatch(ctx context.Context, client *Client, joined *model.WelcomePayload, data []byte, logger *slog.Logger) bool {
	var msg model.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return h.reject(client, model.ErrMalformedMessage)
	}

	var err error
	switch msg.Type {
	case model.MessageAction:
		action, decodeErr := DecodeAction(msg.Payload)
		if decodeErr != nil {
			return h.reject(client, model.ErrInvalidAction)
		}
		err = h.coordinator.HandleAction(ctx, joined.GameID, joined.PlayerID, action)

	case model.MessageChat:
		text, ok := ChatText(msg.Payload)
		if !ok {
			return h.reject(client, model.ErrInvalidChat)
		}
		err = h.coordinator.HandleChat(ctx, joined.GameID, joined.PlayerID, text)

	case model.MessageHeartbeat:
		client.extendDeadline()
		err = client.Send(model.Message{
			Type:    model.MessageHeartbeatAck,
			Payload: model.HeartbeatAckPayload{Timestamp: h.clock.Now().UnixMilli(), Status: "ok"},
		})

	default:
		return h.reject(client, model.ErrUnknownMessage)
	}

	var rule *model.RuleError
	switch {
	case err == nil:
	case errors.As(err, &rule):
		// Already reported to the player
		logger.Info("request rejected", slog.String("type", string(msg.Type)), slog.String("reason", rule.Message))
	case errors.Is(err, model.ErrGameNotFound), errors.Is(err, model.ErrPlayerNotFound):
		return true
	default:
		logger.Warn("request failed", slog.String("type", string(msg.Type)), slog.String("error", err.Error()))
		if errors.Is(err, ErrClientClosed) || errors.Is(err, ErrSendBufferFull) {
			return true
		}
	}
	return false
}

func (h *Handler) reject(client *Client, sentinel error) bool {
	err := client.Send(model.NewErrorMessage(model.PlayerMessage(model.NewProtocolError(sentinel))))
	return err != nil
}

// DecodeAction converts a decoded JSON action payload into an Action.
// Amounts must be whole, non-negative chip counts.
func DecodeAction(payload any) (model.Action, error) {
	var action model.Action
	if _, ok := payload.(map[string]any); !ok {
		return action, model.ErrInvalidAction
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncKind(chipAmountHook),
		Result:     &action,
	})
	if err != nil {
		return action, err
	}
	if err := decoder.Decode(payload); err != nil {
		return model.Action{}, fmt.Errorf("%w: %v", model.ErrInvalidAction, err)
	}
	if action.Amount < 0 {
		return model.Action{}, model.ErrInvalidAction
	}
	return action, nil
}

// chipAmountHook refuses JSON numbers that would be truncated into an int
func chipAmountHook(from, to reflect.Kind, data any) (any, error) {
	if to != reflect.Int || from != reflect.Float64 {
		return data, nil
	}
	f := data.(float64)
	if f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return nil, fmt.Errorf("amount %v is not a chip count", f)
	}
	return int(f), nil
}

// ChatText extracts the chat line from either a bare string payload or
// an object with a text field
func ChatText(payload any) (string, bool) {
	switch p := payload.(type) {
	case string:
		return p, true
	case map[string]any:
		text, ok := p["text"].(string)
		return text, ok
	}
	return "", false
}

// JoinErrorMessage is the text sent to a client whose join was refused
func JoinErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrTableNotFound):
		return "Table not found."
	case errors.Is(err, model.ErrTableFull):
		return "Table is full."
	case errors.Is(err, model.ErrInvalidPassword):
		return "Invalid table password."
	case errors.Is(err, model.ErrInvalidName):
		return "Player name must be at most 20 characters."
	case errors.Is(err, model.ErrServerClosed):
		return "Server is shutting down."
	}
	return "Unable to join a table."
}

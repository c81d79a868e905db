package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mcoot/holdem/internal/dependencies/clock"
	"github.com/mcoot/holdem/internal/dependencies/random"
	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/lobby"
	"github.com/mcoot/holdem/internal/services/table"
	"github.com/mcoot/holdem/internal/services/view"
	"github.com/mcoot/holdem/internal/storage"
)

const (
	// PlayerIDLength is the length of generated player ids
	PlayerIDLength = 8

	// MaxPlayerNameLength is the longest accepted display name, in characters
	MaxPlayerNameLength = 20

	maxJoinAttempts = 3
	maxIDAttempts   = 5
)

// Conn is the outbound half of a player's connection
type Conn interface {
	// Send queues msg for delivery without blocking. An error means the
	// connection is gone and the player should be treated as departed.
	Send(msg model.Message) error
	Close()
}

// Config tunes the coordinator
type Config struct {
	// ShowdownDelay is how long a finished hand stays on the table before
	// the next one is dealt
	ShowdownDelay time.Duration
}

// DefaultConfig returns the production coordinator settings
func DefaultConfig() Config {
	return Config{ShowdownDelay: 5 * time.Second}
}

// JoinRequest asks for a seat. An empty TableID means quick-seat at any
// waiting public table.
type JoinRequest struct {
	TableID  model.GameID
	Password string
	Name     string
}

// Coordinator runs every live game. Each game is owned by a session that
// applies commands one at a time in arrival order; directory and history
// writes happen after the session has released the game, in the order the
// game changed.
type Coordinator struct {
	engine  *table.Engine
	lobby   *lobby.Controller
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	config  Config
	dir     *directory

	mu       sync.Mutex
	sessions map[model.GameID]*session
	closed   bool
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(
	engine *table.Engine,
	lobby *lobby.Controller,
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	config Config,
) *Coordinator {
	return &Coordinator{
		engine:   engine,
		lobby:    lobby,
		storage:  storage,
		clock:    clock,
		random:   random,
		logger:   logger.With(slog.String("component", "coordinator")),
		config:   config,
		dir:      newDirectory(),
		sessions: make(map[model.GameID]*session),
	}
}

// followUp collects the I/O a critical section produced. seq is zero when
// the section left the directory untouched.
type followUp struct {
	seq    uint64
	table  model.Table
	status *model.GameState
	seats  int
	hands  []*model.HandRecord
	remove bool
}

// Join seats a player and sends them a welcome followed by the table state.
// conn receives every later message for this player.
func (c *Coordinator) Join(ctx context.Context, req JoinRequest, conn Conn) (*model.WelcomePayload, error) {
	name, err := c.playerName(req.Name)
	if err != nil {
		return nil, err
	}
	quick := req.TableID == ""

	lastErr := model.ErrTableFull
	for attempt := 0; attempt < maxJoinAttempts; attempt++ {
		tbl, err := c.resolveTable(ctx, req)
		if err != nil {
			return nil, err
		}
		s, err := c.sessionFor(tbl)
		if err != nil {
			return nil, err
		}

		var (
			welcome *model.WelcomePayload
			seatErr error
			f       followUp
		)
		err = s.do(func() {
			welcome, seatErr = c.seat(s, name, conn, quick, &f)
			c.wrapUp(s, &f)
		})
		if errors.Is(err, model.ErrGameNotFound) {
			// Session ended between lookup and join
			lastErr = err
			continue
		}
		c.apply(ctx, s.table.ID, &f)

		if seatErr == nil {
			return welcome, nil
		}
		if quick && (errors.Is(seatErr, model.ErrTableFull) || errors.Is(seatErr, model.ErrGameInProgress)) {
			// The directory was stale; it has just been refreshed
			lastErr = seatErr
			continue
		}
		return nil, seatErr
	}
	return nil, lastErr
}

func (c *Coordinator) resolveTable(ctx context.Context, req JoinRequest) (*model.Table, error) {
	if req.TableID == "" {
		return c.lobby.FindOrCreateWaiting(ctx)
	}
	tbl, err := c.lobby.GetTable(ctx, req.TableID)
	if err != nil {
		return nil, err
	}
	if err := c.lobby.Authorize(tbl, req.Password); err != nil {
		return nil, err
	}
	return tbl, nil
}

func (c *Coordinator) playerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Player " + c.random.String(4, random.Alphanumeric), nil
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return "", model.ErrInvalidName
	}
	return name, nil
}

// seat runs inside the session
func (c *Coordinator) seat(s *session, name string, conn Conn, quick bool, f *followUp) (*model.WelcomePayload, error) {
	g := s.game
	if quick && g.State != model.GameStateWaiting {
		return nil, model.ErrGameInProgress
	}
	if len(g.Seats) >= s.table.Settings.MaxPlayers {
		return nil, model.ErrTableFull
	}

	id, err := c.newPlayerID(g)
	if err != nil {
		return nil, err
	}
	if err := c.engine.AddSeat(g, model.NewSeat(id, name, s.table.Settings.StartingChips)); err != nil {
		return nil, err
	}
	s.conns[id] = conn
	s.logger.Info("player joined",
		slog.String("player_id", string(id)),
		slog.String("player_name", name),
		slog.Int("seats", len(g.Seats)),
	)

	welcome := &model.WelcomePayload{PlayerID: id, PlayerName: name, GameID: g.ID}
	if err := conn.Send(model.Message{Type: model.MessageWelcome, Payload: *welcome}); err != nil {
		c.publish(s, c.depart(s, []model.PlayerID{id}, f), f)
		return nil, fmt.Errorf("failed to send welcome: %w", err)
	}
	var extra []model.Message
	if g.State == model.GameStateWaiting && fundedSeats(g) >= model.MinPlayers {
		extra = c.startHand(s, f)
	}
	c.publish(s, extra, f)
	return welcome, nil
}

func (c *Coordinator) newPlayerID(g *model.Game) (model.PlayerID, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := model.PlayerID(c.random.String(PlayerIDLength, random.Alphanumeric))
		if id != "" && g.SeatIndex(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique player id after %d attempts", maxIDAttempts)
}

// HandleAction applies a betting action. Rule violations are reported to
// the acting player only and are also returned.
func (c *Coordinator) HandleAction(ctx context.Context, gameID model.GameID, playerID model.PlayerID, action model.Action) error {
	s := c.lookup(gameID)
	if s == nil {
		return model.ErrGameNotFound
	}

	var (
		actionErr error
		f         followUp
	)
	err := s.do(func() {
		result, err := c.engine.ApplyAction(s.game, playerID, action)
		var rule *model.RuleError
		switch {
		case errors.As(err, &rule):
			actionErr = err
			c.reply(s, playerID, model.NewErrorMessage(rule.Message), &f)
		case err != nil:
			c.publish(s, c.fault(s, err), &f)
		default:
			c.publish(s, c.outcome(s, result, &f), &f)
		}
		c.wrapUp(s, &f)
	})
	if err != nil {
		return err
	}
	c.apply(ctx, gameID, &f)
	return actionErr
}

// HandleChat relays a chat line, trimmed, to everyone at the table
func (c *Coordinator) HandleChat(ctx context.Context, gameID model.GameID, playerID model.PlayerID, text string) error {
	text = strings.TrimSpace(text)
	s := c.lookup(gameID)
	if s == nil {
		return model.ErrGameNotFound
	}

	var (
		chatErr error
		f       followUp
	)
	err := s.do(func() {
		seat := s.game.Seat(playerID)
		if seat == nil {
			chatErr = model.ErrPlayerNotFound
			return
		}
		switch {
		case text == "":
			chatErr = model.NewProtocolError(model.ErrInvalidChat)
			c.reply(s, playerID, model.NewErrorMessage(model.PlayerMessage(chatErr)), &f)
		case utf8.RuneCountInString(text) > model.MaxChatLength:
			chatErr = model.NewProtocolError(model.ErrChatTooLong)
			c.reply(s, playerID, model.NewErrorMessage(model.PlayerMessage(chatErr)), &f)
		default:
			chat := model.Message{
				Type:    model.MessageChat,
				Payload: model.ChatPayload{PlayerID: playerID, PlayerName: seat.Name, Message: text},
			}
			c.broadcast(s, []model.Message{chat}, &f)
		}
		c.wrapUp(s, &f)
	})
	if err != nil {
		return err
	}
	c.apply(ctx, gameID, &f)
	return chatErr
}

// Disconnect removes a player's connection and takes their seat out of play
func (c *Coordinator) Disconnect(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	s := c.lookup(gameID)
	if s == nil {
		return model.ErrGameNotFound
	}

	var f followUp
	err := s.do(func() {
		if seat := s.game.Seat(playerID); seat == nil || !seat.Active {
			// Already taken out of play after a failed delivery
			s.dropConn(playerID)
			return
		}
		c.publish(s, c.depart(s, []model.PlayerID{playerID}, &f), &f)
		c.wrapUp(s, &f)
	})
	if err != nil {
		return err
	}
	c.apply(ctx, gameID, &f)
	return nil
}

// Snapshot returns the public view of a live game
func (c *Coordinator) Snapshot(ctx context.Context, gameID model.GameID) (model.GameView, error) {
	s := c.lookup(gameID)
	if s == nil {
		return model.GameView{}, model.ErrGameNotFound
	}
	var snapshot model.GameView
	if err := s.do(func() { snapshot = view.Public(s.game) }); err != nil {
		return model.GameView{}, err
	}
	return snapshot, nil
}

// GameCount returns the number of live games
func (c *Coordinator) GameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Close ends every game and closes every connection. Later joins fail with
// ErrServerClosed.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	sessions := c.sessions
	c.sessions = make(map[model.GameID]*session)
	c.mu.Unlock()

	for _, s := range sessions {
		_ = s.do(func() {
			s.stopTimer()
			for id := range s.conns {
				s.dropConn(id)
			}
			s.closing = true
		})
	}
	c.logger.Info("coordinator closed", slog.Int("games", len(sessions)))
}

func (c *Coordinator) sessionFor(tbl *model.Table) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, model.ErrServerClosed
	}
	if s, ok := c.sessions[tbl.ID]; ok {
		return s, nil
	}
	s := newSession(*tbl, c.clock.Now(), c.logger)
	c.sessions[tbl.ID] = s
	return s, nil
}

func (c *Coordinator) lookup(id model.GameID) *session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[id]
}

// wrapUp runs at the end of every critical section. An empty game is
// retired; otherwise its status is queued for the directory.
func (c *Coordinator) wrapUp(s *session, f *followUp) {
	f.table = s.table
	f.seq = c.dir.stamp(s.table.ID)
	if len(s.game.Seats) > 0 {
		state := s.game.State
		f.status = &state
		f.seats = len(s.game.Seats)
		return
	}
	s.stopTimer()
	s.closing = true
	f.remove = true
	c.mu.Lock()
	if c.sessions[s.table.ID] == s {
		delete(c.sessions, s.table.ID)
	}
	c.mu.Unlock()
}

// apply performs the follow-up I/O of a critical section. Failures are
// logged; the live game is authoritative.
func (c *Coordinator) apply(ctx context.Context, id model.GameID, f *followUp) {
	logger := c.logger.With(slog.String("game_id", string(id)))
	if !f.remove {
		for _, hand := range f.hands {
			if err := c.storage.SaveHand(ctx, hand); err != nil {
				logger.Warn("failed to save hand", slog.Int("hand_number", hand.HandNumber), slog.String("error", err.Error()))
			}
		}
	}
	if f.seq == 0 {
		return
	}
	current := c.dir.write(id, f.seq, func() {
		if f.remove {
			if err := c.lobby.DeleteTable(ctx, id); err != nil {
				logger.Warn("failed to remove table", slog.String("error", err.Error()))
			}
			return
		}
		if err := c.lobby.UpdateStatus(ctx, f.table, *f.status, f.seats); err != nil {
			logger.Warn("failed to update table status", slog.String("error", err.Error()))
		}
	})
	if !current {
		logger.Debug("stale directory write skipped", slog.Uint64("seq", f.seq))
	}
}

func fundedSeats(g *model.Game) int {
	n := 0
	for _, s := range g.Seats {
		if s.Active && s.Chips > 0 {
			n++
		}
	}
	return n
}

func newHandRecord(g *model.Game, hand *table.HandResult, now time.Time) *model.HandRecord {
	return &model.HandRecord{
		ID:          uuid.NewString(),
		GameID:      g.ID,
		HandNumber:  hand.HandNumber,
		Board:       hand.Board,
		Pot:         hand.Pot,
		Winners:     hand.Payouts,
		CompletedAt: now,
	}
}

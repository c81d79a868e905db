package coordinator

import (
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/mcoot/holdem/internal/dependencies/clock"
	"github.com/mcoot/holdem/internal/model"
)

// session owns one game. Every read or write of the game runs as a closure
// on the session's own goroutine, in the order the closures were submitted.
type session struct {
	table  model.Table
	game   *model.Game
	conns  map[model.PlayerID]Conn
	timer  clock.Timer
	logger *slog.Logger

	inbox   chan func()
	stopped chan struct{}
	closing bool
}

func newSession(table model.Table, now time.Time, logger *slog.Logger) *session {
	s := &session{
		table:   table,
		game:    model.NewGame(table.ID, table.Settings.SmallBlind, table.Settings.BigBlind, now),
		conns:   make(map[model.PlayerID]Conn),
		logger:  logger.With(slog.String("game_id", string(table.ID))),
		inbox:   make(chan func()),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

// run executes submitted closures one at a time until the session closes
func (s *session) run() {
	s.logger.Info("game session started")
	for {
		fn := <-s.inbox
		s.exec(fn)
		if s.closing {
			close(s.stopped)
			s.logger.Info("game session stopped")
			return
		}
	}
}

func (s *session) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in game session",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn()
}

// do runs fn inside the session's critical section and waits for it to
// finish. It fails with ErrGameNotFound once the session has closed.
func (s *session) do(fn func()) error {
	done := make(chan struct{})
	select {
	case s.inbox <- func() { defer close(done); fn() }:
	case <-s.stopped:
		return model.ErrGameNotFound
	}
	<-done
	return nil
}

// send delivers extra, then the seat's own view when withState is set, to
// every connected seat. It returns the players whose connection failed.
func (s *session) send(extra []model.Message, withState bool, project func(model.PlayerID) model.Message) []model.PlayerID {
	var failed []model.PlayerID
	for _, seat := range s.game.Seats {
		conn, ok := s.conns[seat.ID]
		if !ok {
			continue
		}
		msgs := extra
		if withState {
			msgs = append(msgs[:len(msgs):len(msgs)], project(seat.ID))
		}
		for _, msg := range msgs {
			if err := conn.Send(msg); err != nil {
				s.logger.Warn("message delivery failed",
					slog.String("player_id", string(seat.ID)),
					slog.String("type", string(msg.Type)),
					slog.String("error", err.Error()),
				)
				failed = append(failed, seat.ID)
				break
			}
		}
	}
	return failed
}

// dropConn closes and forgets a player's connection
func (s *session) dropConn(id model.PlayerID) {
	if conn, ok := s.conns[id]; ok {
		conn.Close()
		delete(s.conns, id)
	}
}

func (s *session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

package coordinator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/table"
	"github.com/mcoot/holdem/internal/services/view"
)

// publish sends extra followed by a personalised gameState to every
// connected seat
func (c *Coordinator) publish(s *session, extra []model.Message, f *followUp) {
	c.deliver(s, extra, true, f)
}

// broadcast sends extra to every connected seat without a state update
func (c *Coordinator) broadcast(s *session, extra []model.Message, f *followUp) {
	c.deliver(s, extra, false, f)
}

// deliver treats every failed recipient as departed and republishes until
// a round goes out cleanly. Each round drops at least one connection, so
// it terminates.
func (c *Coordinator) deliver(s *session, extra []model.Message, withState bool, f *followUp) {
	project := func(id model.PlayerID) model.Message {
		return model.Message{Type: model.MessageGameState, Payload: view.Project(s.game, id)}
	}
	failed := s.send(extra, withState, project)
	for len(failed) > 0 {
		extra = c.depart(s, failed, f)
		failed = s.send(extra, true, project)
	}
}

// reply sends msg to a single player
func (c *Coordinator) reply(s *session, id model.PlayerID, msg model.Message, f *followUp) {
	conn, ok := s.conns[id]
	if !ok {
		return
	}
	if err := conn.Send(msg); err != nil {
		s.logger.Warn("reply delivery failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		c.publish(s, c.depart(s, []model.PlayerID{id}, f), f)
	}
}

// depart drops the players' connections and takes their seats out of play,
// returning the messages announcing whatever that settled
func (c *Coordinator) depart(s *session, ids []model.PlayerID, f *followUp) []model.Message {
	var msgs []model.Message
	for _, id := range ids {
		s.dropConn(id)
		result, err := c.engine.MarkDisconnected(s.game, id)
		switch {
		case errors.Is(err, model.ErrPlayerNotFound):
		case err != nil:
			msgs = append(msgs, c.fault(s, err)...)
		default:
			msgs = append(msgs, c.outcome(s, result, f)...)
		}
	}
	return msgs
}

// outcome turns an engine result into winner announcements, recording the
// hand and scheduling the next one when it reached showdown
func (c *Coordinator) outcome(s *session, result *table.Result, f *followUp) []model.Message {
	if result == nil || result.Hand == nil {
		return nil
	}
	msgs := winnerMessages(result.Hand.Payouts)
	if s.game.State == model.GameStateShowdown {
		f.hands = append(f.hands, newHandRecord(s.game, result.Hand, c.clock.Now()))
		c.scheduleRestart(s)
	}
	return msgs
}

// fault recovers a game from an engine failure by splitting the pot among
// the remaining contenders and returning to waiting
func (c *Coordinator) fault(s *session, err error) []model.Message {
	s.logger.Error("game failed, resetting to waiting",
		slog.Int("hand_number", s.game.HandNumber),
		slog.String("error", err.Error()),
	)
	s.stopTimer()
	return winnerMessages(c.engine.ResetToWaiting(s.game))
}

func (c *Coordinator) startHand(s *session, f *followUp) []model.Message {
	result, err := c.engine.StartRound(s.game)
	switch {
	case errors.Is(err, model.ErrNotEnoughPlayers):
		return winnerMessages(c.engine.ResetToWaiting(s.game))
	case err != nil:
		return c.fault(s, err)
	}
	s.logger.Info("hand started",
		slog.Int("hand_number", s.game.HandNumber),
		slog.Int("dealer", s.game.Dealer),
	)
	return c.outcome(s, result, f)
}

func (c *Coordinator) scheduleRestart(s *session) {
	s.stopTimer()
	hand := s.game.HandNumber
	s.timer = c.clock.AfterFunc(c.config.ShowdownDelay, func() {
		c.restart(s, hand)
	})
}

// restart deals the next hand once the showdown delay has passed. A timer
// from an earlier hand, or one that fires after the game changed state, is
// ignored.
func (c *Coordinator) restart(s *session, hand int) {
	var (
		f       followUp
		applied bool
	)
	err := s.do(func() {
		g := s.game
		if g.State != model.GameStateShowdown || g.HandNumber != hand {
			return
		}
		applied = true
		s.timer = nil
		c.engine.CompactSeats(g)

		var extra []model.Message
		if fundedSeats(g) >= model.MinPlayers {
			extra = c.startHand(s, &f)
		} else {
			extra = winnerMessages(c.engine.ResetToWaiting(g))
		}
		c.publish(s, extra, &f)
		c.wrapUp(s, &f)
	})
	if err != nil || !applied {
		return
	}
	c.apply(context.Background(), s.table.ID, &f)
}

func winnerMessages(payouts []model.Payout) []model.Message {
	msgs := make([]model.Message, 0, len(payouts))
	for _, p := range payouts {
		msgs = append(msgs, model.Message{Type: model.MessageWinner, Payload: p})
	}
	return msgs
}

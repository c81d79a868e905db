package table

import (
	"log/slog"

	"github.com/mcoot/holdem/internal/model"
)

// AddSeat seats a new player at the end of the seating order. A player who
// joins mid-hand sits out until the next hand.
func (e *Engine) AddSeat(g *model.Game, seat *model.Seat) error {
	if g.SeatIndex(seat.ID) >= 0 {
		return model.ErrAlreadySeated
	}
	seat.Folded = g.State.Betting()
	g.Seats = append(g.Seats, seat)
	g.UpdatedAt = e.clock.Now()

	e.logger.Info("player seated",
		slog.String("game_id", string(g.ID)),
		slog.String("player_id", string(seat.ID)),
		slog.Int("seat", len(g.Seats)-1),
		slog.Int("chips", seat.Chips),
	)
	return nil
}

// MarkDisconnected takes a seat out of play. The seat stays in place until
// the hand is over so seat indices remain stable; outside a hand it is
// removed at once. If fewer than two connected seats remain, the game
// returns to waiting.
func (e *Engine) MarkDisconnected(g *model.Game, playerID model.PlayerID) (*Result, error) {
	idx := g.SeatIndex(playerID)
	if idx < 0 {
		return nil, model.ErrPlayerNotFound
	}
	seat := g.Seats[idx]
	wasOnTurn := idx == g.CurrentTurn
	seat.Active = false
	g.UpdatedAt = e.clock.Now()

	e.logger.Info("player disconnected",
		slog.String("game_id", string(g.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("state", string(g.State)),
	)

	result := &Result{}
	switch {
	case g.ActiveCount() < model.MinPlayers:
		if payouts := e.ResetToWaiting(g); len(payouts) > 0 {
			result.Hand = &HandResult{HandNumber: g.HandNumber, Payouts: payouts}
		}
		return result, nil
	case g.State == model.GameStateWaiting:
		e.CompactSeats(g)
		return result, nil
	case !g.State.Betting():
		return result, nil
	}
	return result, e.settle(g, result, wasOnTurn)
}

// CompactSeats removes disconnected seats and keeps the button on the last
// surviving seat at or before its old position. It returns the removed seats.
func (e *Engine) CompactSeats(g *model.Game) []*model.Seat {
	var (
		kept    = make([]*model.Seat, 0, len(g.Seats))
		removed []*model.Seat
		dealer  = -1
	)
	for i, s := range g.Seats {
		if !s.Active {
			removed = append(removed, s)
			continue
		}
		kept = append(kept, s)
		if i <= g.Dealer {
			dealer++
		}
	}
	if len(removed) == 0 {
		return nil
	}

	g.Seats = kept
	switch {
	case len(kept) == 0:
		dealer = 0
	case dealer < 0:
		dealer = len(kept) - 1
	}
	g.Dealer = dealer
	if g.CurrentTurn >= len(kept) {
		g.CurrentTurn = 0
	}

	for _, s := range removed {
		e.logger.Info("seat removed",
			slog.String("game_id", string(g.ID)),
			slog.String("player_id", string(s.ID)),
			slog.Int("chips", s.Chips),
		)
	}
	return removed
}

// ResetToWaiting abandons any hand in progress and clears the table for the
// next one. Outstanding chips go to whoever is still contesting the pot,
// split evenly when several are; with nobody left they are discarded.
func (e *Engine) ResetToWaiting(g *model.Game) []model.Payout {
	sweepBets(g)

	var payouts []model.Payout
	if contenders := g.Contenders(); g.Pot > 0 && len(contenders) > 0 {
		shares := SplitPot(g.Pot, len(contenders))
		for i, idx := range contenders {
			seat := g.Seats[idx]
			seat.Chips += shares[i]
			payouts = append(payouts, model.Payout{
				PlayerID:   seat.ID,
				PlayerName: seat.Name,
				Amount:     shares[i],
				Hand:       []model.Card{},
				HandRank:   model.HandRankUncontested,
			})
		}
	} else if g.Pot > 0 {
		e.logger.Warn("pot discarded",
			slog.String("game_id", string(g.ID)),
			slog.Int("pot", g.Pot),
		)
	}

	g.State = model.GameStateWaiting
	g.Deck = model.NewDeck()
	g.CommunityCards = g.CommunityCards[:0]
	g.Pot = 0
	for _, s := range g.Seats {
		s.Bet = 0
		s.Folded = false
		s.HoleCards = s.HoleCards[:0]
	}
	e.CompactSeats(g)
	g.UpdatedAt = e.clock.Now()

	e.logger.Info("game reset to waiting",
		slog.String("game_id", string(g.ID)),
		slog.Int("seats", len(g.Seats)),
	)
	return payouts
}

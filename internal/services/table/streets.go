package table

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/evaluator"
)

// advance closes the current street and deals the next one. While fewer than
// two seats can still bet, streets are dealt back to back until showdown.
func (e *Engine) advance(g *model.Game, result *Result) error {
	for {
		sweepBets(g)

		var deal int
		switch g.State {
		case model.GameStatePreflop:
			deal, g.State = 3, model.GameStateFlop
		case model.GameStateFlop:
			deal, g.State = 1, model.GameStateTurn
		case model.GameStateTurn:
			deal, g.State = 1, model.GameStateRiver
		case model.GameStateRiver:
			hand, err := e.finishHand(g)
			result.Hand = hand
			return err
		default:
			return fmt.Errorf("advance from %s: %w", g.State, model.ErrHandNotInProgress)
		}

		cards, err := g.Deck.Deal(deal)
		if err != nil {
			return fmt.Errorf("deal %s: %w", g.State, err)
		}
		g.CommunityCards = append(g.CommunityCards, cards...)
		result.Streets++

		g.CurrentTurn = g.Dealer
		moveToNextPlayer(g)

		e.logger.Info("street dealt",
			slog.String("game_id", string(g.ID)),
			slog.String("state", string(g.State)),
			slog.Int("community_cards", len(g.CommunityCards)),
			slog.Int("pot", g.Pot),
			slog.Int("current_turn", g.CurrentTurn),
		)

		if actorCount(g) >= 2 {
			return nil
		}
	}
}

// sweepBets moves every seat's street bet into the pot
func sweepBets(g *model.Game) {
	for _, s := range g.Seats {
		g.Pot += s.Bet
		s.Bet = 0
	}
}

// finishHand awards the pot and moves the game to showdown. A lone contender
// takes the pot without revealing a hand; otherwise the best hands split it.
func (e *Engine) finishHand(g *model.Game) (*HandResult, error) {
	sweepBets(g)
	g.State = model.GameStateShowdown
	g.UpdatedAt = e.clock.Now()

	result := &HandResult{
		HandNumber: g.HandNumber,
		Board:      append([]model.Card(nil), g.CommunityCards...),
		Pot:        g.Pot,
	}

	contenders := g.Contenders()
	switch len(contenders) {
	case 0:
		e.logger.Warn("no contenders at showdown, pot discarded",
			slog.String("game_id", string(g.ID)),
			slog.Int("pot", g.Pot),
		)
		g.Pot = 0
		return result, nil
	case 1:
		seat := g.Seats[contenders[0]]
		result.Payouts = []model.Payout{{
			PlayerID:   seat.ID,
			PlayerName: seat.Name,
			Amount:     g.Pot,
			Hand:       []model.Card{},
			HandRank:   model.HandRankUncontested,
		}}
	default:
		payouts, err := showdown(g, contenders)
		if err != nil {
			return nil, err
		}
		result.Payouts = payouts
	}

	for _, p := range result.Payouts {
		g.Seat(p.PlayerID).Chips += p.Amount
		e.logger.Info("pot awarded",
			slog.String("game_id", string(g.ID)),
			slog.Int("hand_number", g.HandNumber),
			slog.String("player_id", string(p.PlayerID)),
			slog.Int("amount", p.Amount),
			slog.String("hand_rank", p.HandRank),
		)
	}
	g.Pot = 0
	return result, nil
}

type rankedSeat struct {
	seat *model.Seat
	eval model.HandEvaluation
	best []model.Card
}

// showdown ranks every contender's best five cards and splits the pot among
// the strongest. The odd chips go to the first winner in ranking order.
func showdown(g *model.Game, contenders []int) ([]model.Payout, error) {
	ranked := make([]rankedSeat, 0, len(contenders))
	for _, i := range contenders {
		seat := g.Seats[i]
		cards := append(append(make([]model.Card, 0, 7), seat.HoleCards...), g.CommunityCards...)
		eval, best, err := evaluator.Best(cards)
		if err != nil {
			return nil, fmt.Errorf("evaluate seat %s: %w", seat.ID, err)
		}
		ranked = append(ranked, rankedSeat{seat: seat, eval: eval, best: best})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return evaluator.Compare(ranked[a].eval, ranked[b].eval) > 0
	})

	winners := 1
	for winners < len(ranked) && evaluator.Compare(ranked[winners].eval, ranked[0].eval) == 0 {
		winners++
	}

	shares := SplitPot(g.Pot, winners)
	payouts := make([]model.Payout, winners)
	for i := range payouts {
		r := ranked[i]
		payouts[i] = model.Payout{
			PlayerID:   r.seat.ID,
			PlayerName: r.seat.Name,
			Amount:     shares[i],
			Hand:       r.best,
			HandRank:   r.eval.Category.String(),
		}
	}
	return payouts, nil
}

// SplitPot divides pot into n equal shares, the remainder going to the first share
func SplitPot(pot, n int) []int {
	if n <= 0 {
		return nil
	}
	shares := make([]int, n)
	for i := range shares {
		shares[i] = pot / n
	}
	shares[0] += pot % n
	return shares
}

// Package view builds the per-recipient snapshots broadcast to players.
package view

import "github.com/mcoot/holdem/internal/model"

// Project returns the game as seen by viewer. Hole cards of other seats are
// hidden until showdown. An empty viewer yields the spectator view, which
// shows no hole cards outside showdown.
func Project(g *model.Game, viewer model.PlayerID) model.GameView {
	reveal := g.State == model.GameStateShowdown

	players := make([]model.SeatView, len(g.Seats))
	for i, s := range g.Seats {
		hole := []model.Card{}
		if reveal || (viewer != "" && s.ID == viewer) {
			hole = append(hole, s.HoleCards...)
		}
		players[i] = model.SeatView{
			ID:        s.ID,
			Name:      s.Name,
			HoleCards: hole,
			Chips:     s.Chips,
			Bet:       s.Bet,
			Folded:    s.Folded,
			Active:    s.Active,
		}
	}

	yourTurn := false
	if current := g.CurrentSeat(); viewer != "" && current != nil && g.State.Betting() {
		yourTurn = current.ID == viewer
	}

	return model.GameView{
		ID:             g.ID,
		Players:        players,
		CommunityCards: append([]model.Card{}, g.CommunityCards...),
		Pot:            g.Pot,
		CurrentTurn:    g.CurrentTurn,
		Dealer:         g.Dealer,
		SmallBlind:     g.SmallBlind,
		BigBlind:       g.BigBlind,
		State:          g.State,
		YourTurn:       yourTurn,
	}
}

// Public returns the spectator view of g
func Public(g *model.Game) model.GameView {
	return Project(g, "")
}

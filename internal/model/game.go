package model

import "time"

// GameID uniquely identifies a game (one table's running instance)
type GameID string

// GameState is the current street of a game
type GameState string

const (
	GameStateWaiting  GameState = "waiting"  // Fewer than two players can play
	GameStatePreflop  GameState = "preflop"  // Hole cards dealt, blinds posted
	GameStateFlop     GameState = "flop"     // Three community cards
	GameStateTurn     GameState = "turn"     // Fourth community card
	GameStateRiver    GameState = "river"    // Fifth community card
	GameStateShowdown GameState = "showdown" // Pot awarded, next hand pending
)

// Betting reports whether the state is one of the four betting streets
func (s GameState) Betting() bool {
	switch s {
	case GameStatePreflop, GameStateFlop, GameStateTurn, GameStateRiver:
		return true
	}
	return false
}

// Game is the complete mutable state of a single game instance.
// It is owned by exactly one coordinator session and must only be touched
// from that session's goroutine.
type Game struct {
	ID             GameID
	Seats          []*Seat
	Deck           *Deck
	CommunityCards []Card
	Pot            int
	CurrentTurn    int
	Dealer         int
	SmallBlind     int
	BigBlind       int
	State          GameState

	// HandNumber counts hands started in this game, starting at 1
	HandNumber int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGame creates a game in the waiting state with a full deck
func NewGame(id GameID, smallBlind, bigBlind int, now time.Time) *Game {
	return &Game{
		ID:             id,
		Seats:          make([]*Seat, 0),
		Deck:           NewDeck(),
		CommunityCards: make([]Card, 0),
		SmallBlind:     smallBlind,
		BigBlind:       bigBlind,
		State:          GameStateWaiting,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SeatIndex returns the index of the seat owned by playerID, or -1
func (g *Game) SeatIndex(playerID PlayerID) int {
	for i, s := range g.Seats {
		if s.ID == playerID {
			return i
		}
	}
	return -1
}

// Seat returns the seat owned by playerID, or nil
func (g *Game) Seat(playerID PlayerID) *Seat {
	if i := g.SeatIndex(playerID); i >= 0 {
		return g.Seats[i]
	}
	return nil
}

// HighestBet is the largest current-street bet among active seats
func (g *Game) HighestBet() int {
	highest := 0
	for _, s := range g.Seats {
		if s.Active && s.Bet > highest {
			highest = s.Bet
		}
	}
	return highest
}

// ActiveCount returns the number of connected seats
func (g *Game) ActiveCount() int {
	n := 0
	for _, s := range g.Seats {
		if s.Active {
			n++
		}
	}
	return n
}

// Contenders returns the indices of active, non-folded seats in seat order
func (g *Game) Contenders() []int {
	var idx []int
	for i, s := range g.Seats {
		if s.InHand() {
			idx = append(idx, i)
		}
	}
	return idx
}

// TotalChips is the chip-conservation quantity: pot plus every seat's stack and bet
func (g *Game) TotalChips() int {
	total := g.Pot
	for _, s := range g.Seats {
		total += s.Chips + s.Bet
	}
	return total
}

// CurrentSeat returns the seat whose turn it is, or nil when out of range
func (g *Game) CurrentSeat() *Seat {
	if g.CurrentTurn < 0 || g.CurrentTurn >= len(g.Seats) {
		return nil
	}
	return g.Seats[g.CurrentTurn]
}

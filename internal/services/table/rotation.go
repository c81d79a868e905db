package table

import "github.com/mcoot/holdem/internal/model"

// nextSeat returns the first seat after from, wrapping around, that
// satisfies ok. It returns from itself when no other seat qualifies.
func nextSeat(g *model.Game, from int, ok func(*model.Seat) bool) int {
	n := len(g.Seats)
	if n == 0 {
		return 0
	}
	start := ((from % n) + n) % n
	for i := (start + 1) % n; i != start; i = (i + 1) % n {
		if ok(g.Seats[i]) {
			return i
		}
	}
	return start
}

// moveToNextPlayer passes the turn to the next seat that is active, not
// folded and holding chips. It reports false, leaving the turn where it
// was, when no other seat can act.
func moveToNextPlayer(g *model.Game) bool {
	next := nextSeat(g, g.CurrentTurn, (*model.Seat).CanAct)
	if next == g.CurrentTurn || !g.Seats[next].CanAct() {
		return false
	}
	g.CurrentTurn = next
	return true
}

// IsBettingRoundComplete reports whether the current street's betting is
// over: at most one contender remains, or every contender with chips left
// has matched the highest bet
func IsBettingRoundComplete(g *model.Game) bool {
	contenders := g.Contenders()
	if len(contenders) <= 1 {
		return true
	}
	highest := g.HighestBet()
	for _, i := range contenders {
		s := g.Seats[i]
		if s.Bet < highest && s.Chips > 0 {
			return false
		}
	}
	return true
}

// actorCount is the number of seats that can still make a betting decision
func actorCount(g *model.Game) int {
	n := 0
	for _, s := range g.Seats {
		if s.CanAct() {
			n++
		}
	}
	return n
}

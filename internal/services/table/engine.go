package table

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/holdem/internal/dependencies/clock"
	"github.com/mcoot/holdem/internal/dependencies/random"
	"github.com/mcoot/holdem/internal/model"
)

// Engine drives the betting state machine of a game. It holds no game
// state of its own: callers pass the game in and must serialize access to it.
type Engine struct {
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	newDeck func() *model.Deck
}

// NewEngine creates a new Engine that deals from freshly shuffled decks
func NewEngine(clock clock.Clock, random random.Random, logger *slog.Logger) *Engine {
	e := &Engine{
		clock:  clock,
		random: random,
		logger: logger,
	}
	e.newDeck = e.shuffledDeck
	return e
}

// WithDeckSource replaces the deck used for each new hand
func (e *Engine) WithDeckSource(source func() *model.Deck) *Engine {
	e.newDeck = source
	return e
}

func (e *Engine) shuffledDeck() *model.Deck {
	deck := model.NewDeck()
	deck.Shuffle(e.random.Intn)
	return deck
}

// Result describes what an engine call changed beyond the action itself
type Result struct {
	// Streets is the number of community-card streets dealt
	Streets int

	// Hand is set when the call finished the hand
	Hand *HandResult
}

// HandResult summarises a finished hand
type HandResult struct {
	HandNumber int
	Board      []model.Card
	Pot        int
	Payouts    []model.Payout
}

// StartRound begins a new hand: rotates the button, posts blinds, deals hole
// cards and hands the turn to the seat after the big blind
func (e *Engine) StartRound(g *model.Game) (*Result, error) {
	eligible := 0
	for _, s := range g.Seats {
		if s.Active && s.Chips > 0 {
			eligible++
		}
	}
	if eligible < model.MinPlayers {
		return nil, fmt.Errorf("start hand with %d eligible seats: %w", eligible, model.ErrNotEnoughPlayers)
	}

	g.Deck = e.newDeck()
	g.CommunityCards = make([]model.Card, 0, 5)
	g.Pot = 0
	g.State = model.GameStatePreflop
	g.HandNumber++
	for _, s := range g.Seats {
		s.Bet = 0
		s.HoleCards = s.HoleCards[:0]
		// Busted and disconnected seats sit the hand out
		s.Folded = !(s.Active && s.Chips > 0)
	}

	g.Dealer = nextSeat(g, g.Dealer, (*model.Seat).InHand)
	smallBlind := nextSeat(g, g.Dealer, (*model.Seat).InHand)
	bigBlind := nextSeat(g, smallBlind, (*model.Seat).InHand)
	sb := postBlind(g.Seats[smallBlind], g.SmallBlind)
	bb := postBlind(g.Seats[bigBlind], g.BigBlind)

	for _, s := range g.Seats {
		if s.Folded {
			continue
		}
		hole, err := g.Deck.Deal(2)
		if err != nil {
			return nil, fmt.Errorf("deal hole cards: %w", err)
		}
		s.HoleCards = append(s.HoleCards, hole...)
	}

	g.CurrentTurn = bigBlind
	moveToNextPlayer(g)
	g.UpdatedAt = e.clock.Now()

	e.logger.Info("hand started",
		slog.String("game_id", string(g.ID)),
		slog.Int("hand_number", g.HandNumber),
		slog.Int("dealer", g.Dealer),
		slog.String("small_blind_player", string(g.Seats[smallBlind].ID)),
		slog.Int("small_blind", sb),
		slog.String("big_blind_player", string(g.Seats[bigBlind].ID)),
		slog.Int("big_blind", bb),
	)

	result := &Result{}
	// Blinds can put everyone but one seat all-in before anyone acts
	if actorCount(g) <= 1 && IsBettingRoundComplete(g) {
		if err := e.advance(g, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func postBlind(s *model.Seat, amount int) int {
	posted := min(amount, s.Chips)
	s.Chips -= posted
	s.Bet += posted
	return posted
}

// ApplyAction validates and applies a betting action for playerID. A rejected
// action returns a *model.RuleError and leaves the game untouched.
func (e *Engine) ApplyAction(g *model.Game, playerID model.PlayerID, action model.Action) (*Result, error) {
	if !g.State.Betting() {
		return nil, model.NewRuleError(model.ErrHandNotInProgress, "No hand in progress.")
	}
	idx := g.SeatIndex(playerID)
	if idx < 0 {
		return nil, model.NewRuleError(model.ErrPlayerNotFound, "Player not found.")
	}
	seat := g.Seats[idx]
	if !seat.InHand() || idx != g.CurrentTurn {
		return nil, model.NewRuleError(model.ErrNotPlayerTurn, "Not your turn.")
	}

	if err := applyBet(g, seat, action); err != nil {
		e.logger.Info("action rejected",
			slog.String("game_id", string(g.ID)),
			slog.String("player_id", string(playerID)),
			slog.String("action", string(action.Type)),
			slog.Int("amount", action.Amount),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}

	g.UpdatedAt = e.clock.Now()
	e.logger.Info("action applied",
		slog.String("game_id", string(g.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("action", string(action.Type)),
		slog.Int("bet", seat.Bet),
		slog.Int("chips", seat.Chips),
	)

	result := &Result{}
	return result, e.settle(g, result, true)
}

// applyBet checks one action against the current bets and moves chips
func applyBet(g *model.Game, seat *model.Seat, action model.Action) error {
	highest := g.HighestBet()

	switch action.Type {
	case model.ActionFold:
		seat.Folded = true

	case model.ActionCheck:
		if seat.Bet < highest {
			return model.NewRuleError(model.ErrIllegalCheck, "Cannot check, there's an active bet.")
		}

	case model.ActionCall:
		toCall := highest - seat.Bet
		if toCall <= 0 {
			return model.NewRuleError(model.ErrNothingToCall, "No amount to call.")
		}
		// A short call puts the seat all-in
		toCall = min(toCall, seat.Chips)
		seat.Chips -= toCall
		seat.Bet += toCall

	case model.ActionBet:
		switch {
		case highest > seat.Bet:
			return model.NewRuleError(model.ErrBetOutstanding, "Cannot bet, someone has already bet. You must call or raise.")
		case action.Amount <= 0 || action.Amount > seat.Chips:
			return model.NewRuleError(model.ErrInvalidBetAmount, "Invalid bet amount.")
		case g.State == model.GameStatePreflop && action.Amount < g.BigBlind:
			return model.NewRuleError(model.ErrBetBelowBigBlind, "Bet must be at least the big blind.")
		case action.Amount < highest:
			return model.NewRuleError(model.ErrInvalidBetAmount, "Your bet must be at least the current highest bet.")
		}
		seat.Chips -= action.Amount
		seat.Bet += action.Amount

	case model.ActionRaise:
		if action.Amount <= 0 || action.Amount > seat.Chips {
			return model.NewRuleError(model.ErrInvalidRaise, "Invalid raise amount.")
		}
		if seat.Bet+action.Amount < highest+minRaiseIncrement(g, seat, highest) {
			return model.NewRuleError(model.ErrRaiseTooSmall, "Invalid raise amount. Must be at least the previous raise increment.")
		}
		seat.Chips -= action.Amount
		seat.Bet += action.Amount

	default:
		return model.NewRuleError(model.ErrUnknownAction, "Unknown action type.")
	}
	return nil
}

// minRaiseIncrement is how far above the highest bet a raise must reach
func minRaiseIncrement(g *model.Game, seat *model.Seat, highest int) int {
	floor := g.BigBlind
	if highest > 0 {
		floor = highest
	}
	return max(highest-seat.Bet, floor)
}

// settle moves the game on after a state change: the hand ends if only one
// contender is left, the street ends if betting is complete, otherwise the
// turn passes on when passTurn is set or the seat on turn can no longer act
func (e *Engine) settle(g *model.Game, result *Result, passTurn bool) error {
	if len(g.Contenders()) <= 1 {
		hand, err := e.finishHand(g)
		result.Hand = hand
		return err
	}
	if IsBettingRoundComplete(g) {
		return e.advance(g, result)
	}
	if current := g.CurrentSeat(); passTurn || current == nil || !current.CanAct() {
		moveToNextPlayer(g)
	}
	return nil
}

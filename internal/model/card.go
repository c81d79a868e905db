package model

import "fmt"

// Suit is one of the four French suits
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

// Suits lists every suit in deck order
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Rank is a card rank as shown to players ("2".."10", "J", "Q", "K", "A")
type Rank string

const (
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankAce   Rank = "A"
)

// Ranks lists every rank from lowest to highest
var Ranks = []Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight,
	RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

var rankValues = map[Rank]int{
	RankTwo: 2, RankThree: 3, RankFour: 4, RankFive: 5, RankSix: 6, RankSeven: 7,
	RankEight: 8, RankNine: 9, RankTen: 10, RankJack: 11, RankQueen: 12, RankKing: 13, RankAce: 14,
}

// Value returns the numeric value of the rank, with Ace high (14).
// Unknown ranks have value 0.
func (r Rank) Value() int {
	return rankValues[r]
}

// Valid reports whether r is one of the thirteen ranks
func (r Rank) Valid() bool {
	_, ok := rankValues[r]
	return ok
}

// Card is an immutable playing card
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard creates a card, rejecting unknown suits or ranks
func NewCard(suit Suit, rank Rank) (Card, error) {
	if !rank.Valid() {
		return Card{}, fmt.Errorf("%w: rank %q", ErrInvalidCard, rank)
	}
	switch suit {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
	default:
		return Card{}, fmt.Errorf("%w: suit %q", ErrInvalidCard, suit)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// String renders the card as rank plus suit symbol, e.g. "10♥"
func (c Card) String() string {
	return string(c.Rank) + c.Suit.Symbol()
}

// Symbol returns the unicode glyph for the suit
func (s Suit) Symbol() string {
	switch s {
	case SuitHearts:
		return "♥"
	case SuitDiamonds:
		return "♦"
	case SuitClubs:
		return "♣"
	case SuitSpades:
		return "♠"
	default:
		return "?"
	}
}

// Red reports whether the suit is printed in red
func (s Suit) Red() bool {
	return s == SuitHearts || s == SuitDiamonds
}

package model

import "fmt"

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// Deck is an ordered sequence of undealt cards, consumed from the front
type Deck struct {
	cards []Card
}

// NewDeck returns the 52 standard cards in suit-major order (unshuffled)
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return &Deck{cards: cards}
}

// NewDeckFromCards builds a deck that deals the given cards in order
func NewDeckFromCards(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Shuffle permutes the remaining cards with Fisher-Yates.
// intn must return a uniform value in [0, n).
func (d *Deck) Shuffle(intn func(n int) int) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the first n cards.
// It never regenerates cards: asking for more than remain is an error.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("deal %d cards: negative count", n)
	}
	if n > len(d.cards) {
		return nil, fmt.Errorf("deal %d cards with %d remaining: %w", n, len(d.cards), ErrDeckExhausted)
	}
	dealt := make([]Card, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt, nil
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the undealt cards in deal order
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

package testutil

import (
	"fmt"
	"strings"

	"github.com/mcoot/holdem/internal/model"
)

var suitShorthand = map[byte]model.Suit{
	'h': model.SuitHearts,
	'd': model.SuitDiamonds,
	'c': model.SuitClubs,
	's': model.SuitSpades,
}

// MustCards parses space separated shorthand such as "As 10h 2c".
// It panics on malformed input.
func MustCards(shorthand string) []model.Card {
	var out []model.Card
	for _, tok := range strings.Fields(shorthand) {
		c, err := model.NewCard(suitShorthand[tok[len(tok)-1]], model.Rank(tok[:len(tok)-1]))
		if err != nil {
			panic(fmt.Sprintf("bad card %q: %v", tok, err))
		}
		out = append(out, c)
	}
	return out
}

// StackedDeck returns a full 52-card deck that deals the given cards first,
// followed by the rest in standard order
func StackedDeck(shorthand string) *model.Deck {
	top := MustCards(shorthand)
	used := make(map[model.Card]bool, len(top))
	for _, c := range top {
		used[c] = true
	}
	cards := append([]model.Card(nil), top...)
	for _, c := range model.NewDeck().Cards() {
		if !used[c] {
			cards = append(cards, c)
		}
	}
	return model.NewDeckFromCards(cards)
}

// Package evaluator ranks poker hands. Every function is pure and safe for
// concurrent use.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/mcoot/holdem/internal/model"
)

const handSize = 5

// Evaluate returns the strength of the best five-card hand contained in
// cards, which must hold between 5 and 7 cards
func Evaluate(cards []model.Card) (model.HandEvaluation, error) {
	eval, _, err := Best(cards)
	return eval, err
}

// Best returns the strongest five-card subset of cards along with its
// evaluation. All C(n,5) subsets are tried; ties keep the earliest subset.
func Best(cards []model.Card) (model.HandEvaluation, []model.Card, error) {
	if len(cards) < handSize || len(cards) > 7 {
		return model.HandEvaluation{}, nil, fmt.Errorf("evaluate %d cards: %w", len(cards), model.ErrInvalidHand)
	}

	var (
		best     model.HandEvaluation
		bestHand []model.Card
	)
	for _, combo := range Combinations(len(cards), handSize) {
		hand := make([]model.Card, handSize)
		for i, idx := range combo {
			hand[i] = cards[idx]
		}
		eval := evaluateFive(hand)
		if bestHand == nil || Compare(eval, best) > 0 {
			best = eval
			bestHand = hand
		}
	}
	return best, bestHand, nil
}

// Compare orders two evaluations: negative if a is weaker, positive if a is
// stronger, zero for a true tie
func Compare(a, b model.HandEvaluation) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	if a.Value != b.Value {
		return a.Value - b.Value
	}
	for i := 0; i < len(a.Kickers) && i < len(b.Kickers); i++ {
		if a.Kickers[i] != b.Kickers[i] {
			return a.Kickers[i] - b.Kickers[i]
		}
	}
	return len(a.Kickers) - len(b.Kickers)
}

// Combinations lists every k-element subset of [0, n) as ascending index
// slices, in lexicographic order
func Combinations(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	var (
		result  [][]int
		current = make([]int, 0, k)
	)
	var walk func(start int)
	walk = func(start int) {
		if len(current) == k {
			result = append(result, append([]int(nil), current...))
			return
		}
		for i := start; i <= n-(k-len(current)); i++ {
			current = append(current, i)
			walk(i + 1)
			current = current[:len(current)-1]
		}
	}
	walk(0)
	return result
}

// evaluateFive classifies exactly five cards
func evaluateFive(cards []model.Card) model.HandEvaluation {
	values := make([]int, len(cards))
	rankCounts := make(map[int]int)
	suitCounts := make(map[model.Suit]int)
	for i, c := range cards {
		v := c.Rank.Value()
		values[i] = v
		rankCounts[v]++
		suitCounts[c.Suit]++
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := false
	for _, n := range suitCounts {
		if n >= handSize {
			flush = true
		}
	}
	straightHigh, straight := straightHighCard(values)

	// Groups of equal rank, largest group first, then higher rank first
	type group struct{ value, count int }
	groups := make([]group, 0, len(rankCounts))
	for v, n := range rankCounts {
		groups = append(groups, group{value: v, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	rest := func(from int) []int {
		out := make([]int, 0, handSize)
		for _, g := range groups[from:] {
			for n := 0; n < g.count; n++ {
				out = append(out, g.value)
			}
		}
		return out
	}

	switch {
	case flush && straight && straightHigh == 14:
		return model.HandEvaluation{Category: model.RoyalFlush, Value: straightHigh, Kickers: []int{}}
	case flush && straight:
		return model.HandEvaluation{Category: model.StraightFlush, Value: straightHigh, Kickers: []int{}}
	case groups[0].count == 4:
		return model.HandEvaluation{Category: model.FourOfAKind, Value: groups[0].value, Kickers: rest(1)}
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2:
		return model.HandEvaluation{Category: model.FullHouse, Value: groups[0].value, Kickers: []int{groups[1].value}}
	case flush:
		return model.HandEvaluation{Category: model.Flush, Value: values[0], Kickers: values[1:]}
	case straight:
		return model.HandEvaluation{Category: model.Straight, Value: straightHigh, Kickers: []int{}}
	case groups[0].count == 3:
		return model.HandEvaluation{Category: model.ThreeOfAKind, Value: groups[0].value, Kickers: rest(1)}
	case groups[0].count == 2 && groups[1].count == 2:
		return model.HandEvaluation{Category: model.TwoPair, Value: groups[0].value, Kickers: append([]int{groups[1].value}, rest(2)...)}
	case groups[0].count == 2:
		return model.HandEvaluation{Category: model.OnePair, Value: groups[0].value, Kickers: rest(1)}
	default:
		return model.HandEvaluation{Category: model.HighCard, Value: values[0], Kickers: values[1:]}
	}
}

// straightHighCard finds the highest run of five consecutive values in a
// descending value list. Aces also count low, so A-2-3-4-5 is a 5-high straight.
func straightHighCard(desc []int) (int, bool) {
	distinct := make([]int, 0, len(desc)+1)
	for _, v := range desc {
		if len(distinct) == 0 || distinct[len(distinct)-1] != v {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) > 0 && distinct[0] == 14 {
		distinct = append(distinct, 1)
	}

	run := 1
	for i := 1; i < len(distinct); i++ {
		if distinct[i] == distinct[i-1]-1 {
			run++
			if run == handSize {
				return distinct[i-4], true
			}
		} else {
			run = 1
		}
	}
	return 0, false
}

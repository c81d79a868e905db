package model

import "time"

// HandCategory orders the ten poker hand classes, weakest first
type HandCategory int

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handCategoryNames = [...]string{
	"High Card", "One Pair", "Two Pair", "Three of a Kind", "Straight",
	"Flush", "Full House", "Four of a Kind", "Straight Flush", "Royal Flush",
}

func (c HandCategory) String() string {
	if c < 0 || int(c) >= len(handCategoryNames) {
		return "Unknown"
	}
	return handCategoryNames[c]
}

// HandRankUncontested is reported when a pot is won without a showdown
const HandRankUncontested = "uncontested"

// HandEvaluation is the comparable strength of a five-card hand.
// Value is the primary rank (pair rank, trips rank, straight high card...),
// Kickers break ties in descending order.
type HandEvaluation struct {
	Category HandCategory
	Value    int
	Kickers  []int
}

// Payout is one winner's share of a pot
type Payout struct {
	PlayerID   PlayerID `json:"playerID"`
	PlayerName string   `json:"playerName"`
	Amount     int      `json:"amount"`
	Hand       []Card   `json:"hand"`
	HandRank   string   `json:"handRank"`
}

// HandRecord is the persisted summary of one completed hand
type HandRecord struct {
	ID          string    `json:"id"`
	GameID      GameID    `json:"game_id"`
	HandNumber  int       `json:"hand_number"`
	Board       []Card    `json:"board"`
	Pot         int       `json:"pot"`
	Winners     []Payout  `json:"winners"`
	CompletedAt time.Time `json:"completed_at"`
}

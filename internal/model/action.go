package model

// ActionType is a betting decision
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
)

// Action is a player's betting decision. Amount is only read for bet and raise,
// and counts chips added on top of the seat's current bet.
type Action struct {
	Type   ActionType `json:"type" mapstructure:"type"`
	Amount int        `json:"amount" mapstructure:"amount"`
}

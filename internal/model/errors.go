package model

import "errors"

// Common errors used across the application
var (
	// Card errors
	ErrInvalidCard   = errors.New("invalid card")
	ErrDeckExhausted = errors.New("deck exhausted")
	ErrInvalidHand   = errors.New("hand must contain 5 to 7 cards")

	// Table errors
	ErrTableNotFound        = errors.New("table not found")
	ErrTableFull            = errors.New("table is full")
	ErrInvalidPassword      = errors.New("invalid table password")
	ErrInvalidTableName     = errors.New("invalid table name")
	ErrInvalidBlinds        = errors.New("invalid blinds")
	ErrInvalidStartingChips = errors.New("starting chips must cover the big blind")
	ErrInvalidMaxPlayers    = errors.New("max players must be between 2 and 9")

	// Game errors
	ErrGameNotFound     = errors.New("game not found")
	ErrGameInProgress   = errors.New("game is in progress")
	ErrNotEnoughPlayers = errors.New("not enough players to start a hand")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrAlreadySeated    = errors.New("player is already seated")
	ErrInvalidName      = errors.New("player name must be at most 20 characters")
	ErrServerClosed     = errors.New("server is shutting down")

	// Rule violations, reported to the acting player only
	ErrNotPlayerTurn     = errors.New("not this player's turn")
	ErrHandNotInProgress = errors.New("no hand in progress")
	ErrIllegalCheck      = errors.New("cannot check facing a bet")
	ErrNothingToCall     = errors.New("nothing to call")
	ErrBetOutstanding    = errors.New("bet already outstanding")
	ErrInvalidBetAmount  = errors.New("invalid bet amount")
	ErrBetBelowBigBlind  = errors.New("bet below big blind")
	ErrInvalidRaise      = errors.New("invalid raise amount")
	ErrRaiseTooSmall     = errors.New("raise below minimum increment")
	ErrUnknownAction     = errors.New("unknown action type")

	// Protocol errors
	ErrMalformedMessage = errors.New("malformed message")
	ErrInvalidAction    = errors.New("invalid action data")
	ErrInvalidChat      = errors.New("invalid chat message")
	ErrChatTooLong      = errors.New("chat message too long")
	ErrUnknownMessage   = errors.New("unknown message type")
)

var protocolMessages = map[error]string{
	ErrMalformedMessage: "Invalid message format.",
	ErrInvalidAction:    "Invalid action data.",
	ErrInvalidChat:      "Invalid chat message format.",
	ErrChatTooLong:      "Chat message too long.",
	ErrUnknownMessage:   "Unknown message type.",
}

// RuleError is a rejected player request. Message is the text sent back
// to the player; Err is the sentinel for errors.Is.
type RuleError struct {
	Err     error
	Message string
}

func (e *RuleError) Error() string {
	return e.Err.Error() + ": " + e.Message
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// NewRuleError wraps a sentinel with its player-facing text
func NewRuleError(err error, message string) *RuleError {
	return &RuleError{Err: err, Message: message}
}

// PlayerMessage extracts the player-facing text from err, falling back to
// the error string for anything that is not a RuleError
func PlayerMessage(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}

// NewProtocolError wraps one of the protocol sentinels with its
// player-facing text
func NewProtocolError(err error) *RuleError {
	msg, ok := protocolMessages[err]
	if !ok {
		msg = err.Error()
	}
	return &RuleError{Err: err, Message: msg}
}

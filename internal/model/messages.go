package model

// MessageType names a wire message
type MessageType string

// Inbound message types
const (
	MessageAction    MessageType = "action"
	MessageChat      MessageType = "chat"
	MessageHeartbeat MessageType = "heartbeat"
)

// Outbound message types
const (
	MessageWelcome      MessageType = "welcome"
	MessageGameState    MessageType = "gameState"
	MessageWinner       MessageType = "winner"
	MessageError        MessageType = "error"
	MessageHeartbeatAck MessageType = "heartbeat_ack"
)

// MaxChatLength is the longest chat message accepted, in characters
const MaxChatLength = 200

// Message is the envelope for every frame exchanged with a client
type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// WelcomePayload is sent once to a player after they are seated
type WelcomePayload struct {
	PlayerID   PlayerID `json:"playerID"`
	PlayerName string   `json:"playerName"`
	GameID     GameID   `json:"gameID"`
}

// ChatPayload is a relayed chat line
type ChatPayload struct {
	PlayerID   PlayerID `json:"playerID"`
	PlayerName string   `json:"playerName"`
	Message    string   `json:"message"`
}

// ErrorPayload carries a player-facing error description
type ErrorPayload struct {
	Message string `json:"message"`
}

// HeartbeatAckPayload answers a client heartbeat; Timestamp is unix milliseconds
type HeartbeatAckPayload struct {
	Timestamp int64  `json:"timestamp"`
	Status    string `json:"status"`
}

// SeatView is a seat as seen by one recipient
type SeatView struct {
	ID        PlayerID `json:"id"`
	Name      string   `json:"name"`
	HoleCards []Card   `json:"holeCards"`
	Chips     int      `json:"chips"`
	Bet       int      `json:"bet"`
	Folded    bool     `json:"folded"`
	Active    bool     `json:"active"`
}

// GameView is the redacted snapshot broadcast as a gameState payload
type GameView struct {
	ID             GameID     `json:"id"`
	Players        []SeatView `json:"players"`
	CommunityCards []Card     `json:"communityCards"`
	Pot            int        `json:"pot"`
	CurrentTurn    int        `json:"currentTurn"`
	Dealer         int        `json:"dealer"`
	SmallBlind     int        `json:"smallBlind"`
	BigBlind       int        `json:"bigBlind"`
	State          GameState  `json:"state"`
	YourTurn       bool       `json:"yourTurn"`
}

// NewErrorMessage builds an error envelope
func NewErrorMessage(text string) Message {
	return Message{Type: MessageError, Payload: ErrorPayload{Message: text}}
}

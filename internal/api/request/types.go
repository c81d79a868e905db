package request

// CreateTableRequest is the request body for opening a named table.
// Zero stakes fall back to the server defaults.
type CreateTableRequest struct {
	Name          string `json:"name"`
	SmallBlind    int    `json:"small_blind,omitempty"`
	BigBlind      int    `json:"big_blind,omitempty"`
	StartingChips int    `json:"starting_chips,omitempty"`
	MaxPlayers    int    `json:"max_players,omitempty"`
	Password      string `json:"password,omitempty"`
}

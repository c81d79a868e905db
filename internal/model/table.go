package model

import "time"

// Table limits
const (
	MinPlayers      = 2
	MaxTablePlayers = 9
)

// TableSettings holds the stakes and capacity of a table
type TableSettings struct {
	SmallBlind    int `json:"small_blind"`
	BigBlind      int `json:"big_blind"`
	StartingChips int `json:"starting_chips"`
	MaxPlayers    int `json:"max_players"`
}

// DefaultTableSettings returns the stakes used for quick-seat tables
func DefaultTableSettings() TableSettings {
	return TableSettings{
		SmallBlind:    5,
		BigBlind:      10,
		StartingChips: 1000,
		MaxPlayers:    MaxTablePlayers,
	}
}

// Validate checks the settings are playable
func (s TableSettings) Validate() error {
	switch {
	case s.SmallBlind <= 0 || s.BigBlind < s.SmallBlind:
		return ErrInvalidBlinds
	case s.StartingChips < s.BigBlind:
		return ErrInvalidStartingChips
	case s.MaxPlayers < MinPlayers || s.MaxPlayers > MaxTablePlayers:
		return ErrInvalidMaxPlayers
	}
	return nil
}

// Table is the directory entry for a game instance. The live game state
// itself is held by the coordinator; this record only mirrors what other
// players need to find and join the table.
type Table struct {
	ID           GameID        `json:"id"`
	Name         string        `json:"name"`
	Settings     TableSettings `json:"settings"`
	Private      bool          `json:"private"`
	PasswordHash string        `json:"password_hash,omitempty"`
	State        GameState     `json:"state"`
	PlayerCount  int           `json:"player_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Joinable reports whether a new seat may be added
func (t *Table) Joinable() bool {
	return t.State == GameStateWaiting && t.PlayerCount < t.Settings.MaxPlayers
}

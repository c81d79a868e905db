package response

import (
	"time"

	"github.com/mcoot/holdem/internal/model"
)

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
	Games  int    `json:"games"`
}

// TableSettings represents a table's stakes and capacity
type TableSettings struct {
	SmallBlind    int `json:"small_blind"`
	BigBlind      int `json:"big_blind"`
	StartingChips int `json:"starting_chips"`
	MaxPlayers    int `json:"max_players"`
}

// Table represents a directory entry in API responses. The password hash
// is never included.
type Table struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Settings    TableSettings `json:"settings"`
	Private     bool          `json:"private"`
	State       string        `json:"state"`
	PlayerCount int           `json:"player_count"`
	CreatedAt   time.Time     `json:"created_at"`
}

// TableFromModel converts model.Table
func TableFromModel(t *model.Table) Table {
	return Table{
		ID:   string(t.ID),
		Name: t.Name,
		Settings: TableSettings{
			SmallBlind:    t.Settings.SmallBlind,
			BigBlind:      t.Settings.BigBlind,
			StartingChips: t.Settings.StartingChips,
			MaxPlayers:    t.Settings.MaxPlayers,
		},
		Private:     t.Private,
		State:       string(t.State),
		PlayerCount: t.PlayerCount,
		CreatedAt:   t.CreatedAt,
	}
}

// TableList is the response for listing tables
type TableList struct {
	Tables []Table `json:"tables"`
}

// TableDetail is a table plus the public view of its live game, if any
type TableDetail struct {
	Table
	Game *model.GameView `json:"game,omitempty"`
}

// Hand represents a completed hand
type Hand struct {
	ID          string         `json:"id"`
	HandNumber  int            `json:"hand_number"`
	Board       []model.Card   `json:"board"`
	Pot         int            `json:"pot"`
	Winners     []model.Payout `json:"winners"`
	CompletedAt time.Time      `json:"completed_at"`
}

// HandFromModel converts model.HandRecord
func HandFromModel(h *model.HandRecord) Hand {
	board := h.Board
	if board == nil {
		board = []model.Card{}
	}
	winners := h.Winners
	if winners == nil {
		winners = []model.Payout{}
	}
	return Hand{
		ID:          h.ID,
		HandNumber:  h.HandNumber,
		Board:       board,
		Pot:         h.Pot,
		Winners:     winners,
		CompletedAt: h.CompletedAt,
	}
}

// HandList is the response for a table's hand history, newest first
type HandList struct {
	Hands []Hand `json:"hands"`
}

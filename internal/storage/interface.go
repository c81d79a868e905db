package storage

import (
	"context"

	"github.com/mcoot/holdem/internal/model"
)

// HandHistoryLimit is the number of hand records kept per table
const HandHistoryLimit = 200

// Storage defines the interface for data persistence
type Storage interface {
	// Table directory operations
	SaveTable(ctx context.Context, table *model.Table) error
	GetTable(ctx context.Context, id model.GameID) (*model.Table, error)
	ListTables(ctx context.Context) ([]*model.Table, error)
	DeleteTable(ctx context.Context, id model.GameID) error
	TableExists(ctx context.Context, id model.GameID) (bool, error)

	// Hand history operations. ListHands returns newest first; limit <= 0
	// returns every retained record.
	SaveHand(ctx context.Context, hand *model.HandRecord) error
	ListHands(ctx context.Context, gameID model.GameID, limit int) ([]*model.HandRecord, error)
}

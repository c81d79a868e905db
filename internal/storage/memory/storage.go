package memory

import (
	"context"
	"sync"

	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on the way in and out.
type Storage struct {
	mu sync.RWMutex

	tables map[model.GameID]model.Table
	hands  map[model.GameID][]model.HandRecord // newest first
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		tables: make(map[model.GameID]model.Table),
		hands:  make(map[model.GameID][]model.HandRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Table operations

func (s *Storage) SaveTable(ctx context.Context, table *model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table.ID] = *table
	return nil
}

func (s *Storage) GetTable(ctx context.Context, id model.GameID) (*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.tables[id]
	if !ok {
		return nil, model.ErrTableNotFound
	}
	return &table, nil
}

func (s *Storage) ListTables(ctx context.Context) ([]*model.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tables := make([]*model.Table, 0, len(s.tables))
	for _, t := range s.tables {
		table := t
		tables = append(tables, &table)
	}
	storage.SortTables(tables)
	return tables, nil
}

func (s *Storage) DeleteTable(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
	delete(s.hands, id)
	return nil
}

func (s *Storage) TableExists(ctx context.Context, id model.GameID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tables[id]
	return ok, nil
}

// Hand history operations

func (s *Storage) SaveHand(ctx context.Context, hand *model.HandRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hands := append([]model.HandRecord{*hand}, s.hands[hand.GameID]...)
	if len(hands) > storage.HandHistoryLimit {
		hands = hands[:storage.HandHistoryLimit]
	}
	s.hands[hand.GameID] = hands
	return nil
}

func (s *Storage) ListHands(ctx context.Context, gameID model.GameID, limit int) ([]*model.HandRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hands := s.hands[gameID]
	if limit > 0 && limit < len(hands) {
		hands = hands[:limit]
	}
	result := make([]*model.HandRecord, len(hands))
	for i := range hands {
		hand := hands[i]
		result[i] = &hand
	}
	return result, nil
}

package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/storage"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) table(id model.GameID, offset time.Duration) *model.Table {
	return &model.Table{
		ID:        id,
		Name:      "Table " + string(id),
		Settings:  model.DefaultTableSettings(),
		State:     model.GameStateWaiting,
		CreatedAt: s.now.Add(offset),
		UpdatedAt: s.now.Add(offset),
	}
}

// Table tests

func (s *StorageSuite) TestSaveAndGetTable() {
	table := s.table("abc12345", 0)

	err := s.storage.SaveTable(s.ctx, table)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetTable(s.ctx, "abc12345")
	s.Require().NoError(err)
	s.Equal(table, retrieved)

	// Stored records are copies
	retrieved.PlayerCount = 5
	again, err := s.storage.GetTable(s.ctx, "abc12345")
	s.Require().NoError(err)
	s.Equal(0, again.PlayerCount)
}

func (s *StorageSuite) TestGetTableNotFound() {
	_, err := s.storage.GetTable(s.ctx, "missing")
	s.ErrorIs(err, model.ErrTableNotFound)
}

func (s *StorageSuite) TestListTablesOldestFirst() {
	s.Require().NoError(s.storage.SaveTable(s.ctx, s.table("b", time.Minute)))
	s.Require().NoError(s.storage.SaveTable(s.ctx, s.table("a", 2*time.Minute)))
	s.Require().NoError(s.storage.SaveTable(s.ctx, s.table("c", 0)))

	tables, err := s.storage.ListTables(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(tables, 3)
	s.Equal(model.GameID("c"), tables[0].ID)
	s.Equal(model.GameID("b"), tables[1].ID)
	s.Equal(model.GameID("a"), tables[2].ID)
}

func (s *StorageSuite) TestDeleteTable() {
	s.Require().NoError(s.storage.SaveTable(s.ctx, s.table("abc", 0)))
	s.Require().NoError(s.storage.SaveHand(s.ctx, &model.HandRecord{ID: "h1", GameID: "abc"}))

	err := s.storage.DeleteTable(s.ctx, "abc")
	s.Require().NoError(err)

	exists, err := s.storage.TableExists(s.ctx, "abc")
	s.Require().NoError(err)
	s.False(exists)
	hands, err := s.storage.ListHands(s.ctx, "abc", 0)
	s.Require().NoError(err)
	s.Empty(hands)
}

func (s *StorageSuite) TestTableExists() {
	exists, err := s.storage.TableExists(s.ctx, "abc")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveTable(s.ctx, s.table("abc", 0)))

	exists, err = s.storage.TableExists(s.ctx, "abc")
	s.Require().NoError(err)
	s.True(exists)
}

// Hand history tests

func (s *StorageSuite) TestListHandsNewestFirstWithLimit() {
	for i := 1; i <= 5; i++ {
		err := s.storage.SaveHand(s.ctx, &model.HandRecord{
			ID:         fmt.Sprintf("hand-%d", i),
			GameID:     "abc",
			HandNumber: i,
			Pot:        i * 10,
		})
		s.Require().NoError(err)
	}

	hands, err := s.storage.ListHands(s.ctx, "abc", 3)
	s.Require().NoError(err)
	s.Require().Len(hands, 3)
	s.Equal(5, hands[0].HandNumber)
	s.Equal(4, hands[1].HandNumber)
	s.Equal(3, hands[2].HandNumber)

	all, err := s.storage.ListHands(s.ctx, "abc", 0)
	s.Require().NoError(err)
	s.Len(all, 5)

	none, err := s.storage.ListHands(s.ctx, "other", 10)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *StorageSuite) TestHandHistoryIsCapped() {
	for i := 0; i < storage.HandHistoryLimit+10; i++ {
		s.Require().NoError(s.storage.SaveHand(s.ctx, &model.HandRecord{GameID: "abc", HandNumber: i}))
	}

	hands, err := s.storage.ListHands(s.ctx, "abc", 0)
	s.Require().NoError(err)
	s.Len(hands, storage.HandHistoryLimit)
	s.Equal(storage.HandHistoryLimit+9, hands[0].HandNumber)
}

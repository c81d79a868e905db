package coordinator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/holdem/internal/dependencies/mocks"
	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/lobby"
	"github.com/mcoot/holdem/internal/services/table"
	"github.com/mcoot/holdem/internal/storage/memory"
	"github.com/mcoot/holdem/internal/testutil"
)

const (
	tableID = model.GameID("table001")
	alice   = model.PlayerID("alice001")
	bob     = model.PlayerID("bob00001")

	// Heads-up, seat 0 (alice) acts first and holds aces
	aliceWinsDeck = "As Ah Kc Kd 2c 3c 7d 9h Js"
)

type CoordinatorSuite struct {
	suite.Suite
	storage     *memory.Storage
	clock       *mocks.MockClock
	random      *mocks.MockRandom
	engine      *table.Engine
	lobby       *lobby.Controller
	coordinator *Coordinator
	ctx         context.Context
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.engine = table.NewEngine(s.clock, s.random, testutil.NopLogger()).
		WithDeckSource(func() *model.Deck { return testutil.StackedDeck(aliceWinsDeck) })
	s.lobby = lobby.NewController(s.storage, s.clock, s.random, testutil.NopLogger(), model.DefaultTableSettings())
	s.coordinator = NewCoordinator(s.engine, s.lobby, s.storage, s.clock, s.random, testutil.NopLogger(), DefaultConfig())
	s.ctx = context.Background()
}

func (s *CoordinatorSuite) TearDownTest() {
	s.coordinator.Close()
}

func (s *CoordinatorSuite) createTable(settings model.TableSettings, password string) {
	s.random.QueueString(string(tableID))
	_, err := s.lobby.CreateTable(s.ctx, lobby.CreateTableParams{Name: "Test", Settings: settings, Password: password})
	s.Require().NoError(err)
}

func (s *CoordinatorSuite) join(id model.PlayerID, name string) *testutil.RecordingConn {
	conn := testutil.NewRecordingConn()
	s.random.QueueString(string(id))
	welcome, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: tableID, Name: name}, conn)
	s.Require().NoError(err)
	s.Require().Equal(id, welcome.PlayerID)
	return conn
}

// startHeadsUp seats alice and bob at a default table, which deals the first hand
func (s *CoordinatorSuite) startHeadsUp() (*testutil.RecordingConn, *testutil.RecordingConn) {
	s.createTable(model.DefaultTableSettings(), "")
	a := s.join(alice, "Alice")
	b := s.join(bob, "Bob")
	return a, b
}

func (s *CoordinatorSuite) act(player model.PlayerID, action model.ActionType, amount int) {
	err := s.coordinator.HandleAction(s.ctx, tableID, player, model.Action{Type: action, Amount: amount})
	s.Require().NoError(err)
}

// playToShowdown calls preflop and checks down every street
func (s *CoordinatorSuite) playToShowdown() {
	s.act(alice, model.ActionCall, 0)
	s.act(alice, model.ActionCheck, 0)
	s.act(alice, model.ActionCheck, 0)
	s.act(alice, model.ActionCheck, 0)
}

func (s *CoordinatorSuite) lastState(conn *testutil.RecordingConn) model.GameView {
	view, ok := conn.LastState()
	s.Require().True(ok, "expected a gameState message")
	return view
}

func (s *CoordinatorSuite) directory() *model.Table {
	t, err := s.lobby.GetTable(s.ctx, tableID)
	s.Require().NoError(err)
	return t
}

// Join tests

func (s *CoordinatorSuite) TestConcurrentJoinsKeepDirectoryCurrent() {
	for round := 0; round < 20; round++ {
		id := model.GameID(fmt.Sprintf("race%04d", round))
		s.random.QueueString(string(id))
		_, err := s.lobby.CreateTable(s.ctx, lobby.CreateTableParams{Name: "Race", Settings: model.DefaultTableSettings()})
		s.Require().NoError(err)

		var wg sync.WaitGroup
		errs := make(chan error, model.MaxTablePlayers)
		for i := 0; i < model.MaxTablePlayers; i++ {
			s.random.QueueString(fmt.Sprintf("p%03d%04d", i, round))
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: id, Name: fmt.Sprintf("Player %d", i)}, testutil.NewRecordingConn())
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			s.Require().NoError(err)
		}

		live, err := s.coordinator.Snapshot(s.ctx, id)
		s.Require().NoError(err)
		listed, err := s.lobby.GetTable(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(len(live.Players), listed.PlayerCount, "round %d", round)
		s.Equal(live.State, listed.State, "round %d", round)
	}
	s.Zero(s.coordinator.dir.tracked())
}

func (s *CoordinatorSuite) TestLateRemovalKeepsReopenedTable() {
	s.createTable(model.DefaultTableSettings(), "")
	// Reserved by the critical section that retired the previous game
	retired := s.coordinator.dir.stamp(tableID)

	s.join(alice, "Alice")
	s.coordinator.apply(s.ctx, tableID, &followUp{seq: retired, remove: true})

	s.Equal(1, s.directory().PlayerCount)
	s.Zero(s.coordinator.dir.tracked())
}

func (s *CoordinatorSuite) TestStatusWriteRestoresRemovedEntry() {
	s.startHeadsUp()
	// The previous game's removal landed after this session opened
	s.Require().NoError(s.lobby.DeleteTable(s.ctx, tableID))

	s.act(alice, model.ActionCall, 0)

	dir := s.directory()
	s.Equal(2, dir.PlayerCount)
	s.Equal(model.GameStatePreflop, dir.State)
	s.Equal("Test", dir.Name)
}

func (s *CoordinatorSuite) TestJoinSendsWelcomeThenState() {
	s.createTable(model.DefaultTableSettings(), "")
	conn := s.join(alice, "  Alice ")

	msgs := conn.Messages()
	s.Require().Len(msgs, 2)
	s.Equal(model.MessageWelcome, msgs[0].Type)
	s.Equal(model.WelcomePayload{PlayerID: alice, PlayerName: "Alice", GameID: tableID}, msgs[0].Payload)
	s.Equal(model.MessageGameState, msgs[1].Type)

	view := s.lastState(conn)
	s.Equal(model.GameStateWaiting, view.State)
	s.Require().Len(view.Players, 1)
	s.Equal(1000, view.Players[0].Chips)
	s.False(view.YourTurn)

	s.Equal(1, s.directory().PlayerCount)
	s.Equal(1, s.coordinator.GameCount())
}

func (s *CoordinatorSuite) TestSecondJoinStartsHand() {
	a, b := s.startHeadsUp()

	aliceView := s.lastState(a)
	s.Equal(model.GameStatePreflop, aliceView.State)
	s.True(aliceView.YourTurn)
	s.Equal(1, aliceView.Dealer)
	s.Equal(testutil.MustCards("As Ah"), aliceView.Players[0].HoleCards)
	s.Equal([]model.Card{}, aliceView.Players[1].HoleCards)
	s.Equal(5, aliceView.Players[0].Bet)
	s.Equal(10, aliceView.Players[1].Bet)

	bobView := s.lastState(b)
	s.False(bobView.YourTurn)
	s.Equal([]model.Card{}, bobView.Players[0].HoleCards)
	s.Equal(testutil.MustCards("Kc Kd"), bobView.Players[1].HoleCards)

	dir := s.directory()
	s.Equal(model.GameStatePreflop, dir.State)
	s.Equal(2, dir.PlayerCount)
}

func (s *CoordinatorSuite) TestJoinDefaultsName() {
	s.createTable(model.DefaultTableSettings(), "")
	s.random.QueueString("ab12", string(alice))
	welcome, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: tableID}, testutil.NewRecordingConn())
	s.Require().NoError(err)
	s.Equal("Player ab12", welcome.PlayerName)
}

func (s *CoordinatorSuite) TestJoinRejectsLongName() {
	s.createTable(model.DefaultTableSettings(), "")
	_, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: tableID, Name: strings.Repeat("x", 21)}, testutil.NewRecordingConn())
	s.ErrorIs(err, model.ErrInvalidName)
}

func (s *CoordinatorSuite) TestJoinUnknownTable() {
	_, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: "missing1", Name: "Alice"}, testutil.NewRecordingConn())
	s.ErrorIs(err, model.ErrTableNotFound)
}

func (s *CoordinatorSuite) TestJoinPrivateTableChecksPassword() {
	s.createTable(model.DefaultTableSettings(), "hunter2")

	_, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: tableID, Name: "Alice", Password: "wrong"}, testutil.NewRecordingConn())
	s.ErrorIs(err, model.ErrInvalidPassword)

	s.random.QueueString(string(alice))
	_, err = s.coordinator.Join(s.ctx, JoinRequest{TableID: tableID, Name: "Alice", Password: "hunter2"}, testutil.NewRecordingConn())
	s.NoError(err)
}

func (s *CoordinatorSuite) TestJoinFullTable() {
	settings := model.DefaultTableSettings()
	settings.MaxPlayers = 2
	s.createTable(settings, "")
	s.join(alice, "Alice")
	s.join(bob, "Bob")

	s.random.QueueString("carol001")
	_, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: tableID, Name: "Carol"}, testutil.NewRecordingConn())
	s.ErrorIs(err, model.ErrTableFull)
}

func (s *CoordinatorSuite) TestJoinMidHandSitsOut() {
	a, _ := s.startHeadsUp()
	s.random.QueueString("carol001")
	c := testutil.NewRecordingConn()
	_, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: tableID, Name: "Carol"}, c)
	s.Require().NoError(err)

	view := s.lastState(c)
	s.Equal(model.GameStatePreflop, view.State)
	s.Require().Len(view.Players, 3)
	s.True(view.Players[2].Folded)
	s.Empty(view.Players[2].HoleCards)
	s.Len(s.lastState(a).Players, 3)
}

func (s *CoordinatorSuite) TestQuickSeatSharesWaitingTable() {
	s.random.QueueString("quick001", string(alice))
	first, err := s.coordinator.Join(s.ctx, JoinRequest{Name: "Alice"}, testutil.NewRecordingConn())
	s.Require().NoError(err)
	s.Equal(model.GameID("quick001"), first.GameID)

	s.random.QueueString(string(bob))
	second, err := s.coordinator.Join(s.ctx, JoinRequest{Name: "Bob"}, testutil.NewRecordingConn())
	s.Require().NoError(err)
	s.Equal(first.GameID, second.GameID)
	s.Equal(1, s.coordinator.GameCount())
}

func (s *CoordinatorSuite) TestQuickSeatSkipsTableInProgress() {
	s.random.QueueString("quick001", string(alice), string(bob))
	_, err := s.coordinator.Join(s.ctx, JoinRequest{Name: "Alice"}, testutil.NewRecordingConn())
	s.Require().NoError(err)
	_, err = s.coordinator.Join(s.ctx, JoinRequest{Name: "Bob"}, testutil.NewRecordingConn())
	s.Require().NoError(err)

	s.random.QueueString("quick002", "carol001")
	third, err := s.coordinator.Join(s.ctx, JoinRequest{Name: "Carol"}, testutil.NewRecordingConn())
	s.Require().NoError(err)
	s.Equal(model.GameID("quick002"), third.GameID)
}

// Action tests

func (s *CoordinatorSuite) TestRuleErrorGoesToSenderOnly() {
	a, b := s.startHeadsUp()
	a.Reset()
	b.Reset()

	err := s.coordinator.HandleAction(s.ctx, tableID, bob, model.Action{Type: model.ActionCheck})
	s.ErrorIs(err, model.ErrNotPlayerTurn)

	s.Empty(a.Messages())
	s.Equal([]model.Message{model.NewErrorMessage("Not your turn.")}, b.Messages())
}

func (s *CoordinatorSuite) TestActionBroadcastsPersonalisedState() {
	a, b := s.startHeadsUp()
	a.Reset()
	b.Reset()

	s.act(alice, model.ActionCall, 0)

	aliceView := s.lastState(a)
	bobView := s.lastState(b)
	s.Equal(model.GameStateFlop, aliceView.State)
	s.Equal(20, aliceView.Pot)
	s.Len(aliceView.CommunityCards, 3)
	s.NotEmpty(aliceView.Players[0].HoleCards)
	s.Empty(aliceView.Players[1].HoleCards)
	s.Empty(bobView.Players[0].HoleCards)
	s.NotEmpty(bobView.Players[1].HoleCards)
}

func (s *CoordinatorSuite) TestActionUnknownGame() {
	err := s.coordinator.HandleAction(s.ctx, "missing1", alice, model.Action{Type: model.ActionFold})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *CoordinatorSuite) TestShowdownAnnouncesWinnerAndRecordsHand() {
	a, b := s.startHeadsUp()
	a.Reset()
	b.Reset()

	s.playToShowdown()

	msgs := b.Messages()
	s.Require().GreaterOrEqual(len(msgs), 2)
	winner := msgs[len(msgs)-2]
	s.Equal(model.MessageWinner, winner.Type)
	payout := winner.Payload.(model.Payout)
	s.Equal(alice, payout.PlayerID)
	s.Equal(20, payout.Amount)
	s.Equal("One Pair", payout.HandRank)

	view := s.lastState(b)
	s.Equal(model.GameStateShowdown, view.State)
	s.Equal(testutil.MustCards("As Ah"), view.Players[0].HoleCards, "showdown reveals every hand")
	s.False(view.YourTurn)

	hands, err := s.storage.ListHands(s.ctx, tableID, 0)
	s.Require().NoError(err)
	s.Require().Len(hands, 1)
	s.Equal(1, hands[0].HandNumber)
	s.Equal(20, hands[0].Pot)
	s.Len(hands[0].Board, 5)
	s.Equal(alice, hands[0].Winners[0].PlayerID)

	s.Equal(model.GameStateShowdown, s.directory().State)
}

func (s *CoordinatorSuite) TestNextHandDealtAfterShowdownDelay() {
	a, _ := s.startHeadsUp()
	s.playToShowdown()
	s.Equal(1, s.clock.PendingTimers())

	s.clock.Advance(DefaultConfig().ShowdownDelay - time.Second)
	s.Equal(model.GameStateShowdown, s.lastState(a).State)

	s.clock.Advance(time.Second)
	view := s.lastState(a)
	s.Equal(model.GameStatePreflop, view.State)
	s.Equal(0, view.Dealer, "button moves to the next seat")
	// Alice won the 20 pot and now posts the big blind
	s.Equal(1000, view.Players[0].Chips)
	s.Equal(10, view.Players[0].Bet)
	s.Equal(985, view.Players[1].Chips)
	s.Equal(5, view.Players[1].Bet)
	s.Equal(model.GameStatePreflop, s.directory().State)
}

func (s *CoordinatorSuite) TestRestartIgnoredAfterGameChanged() {
	a, _ := s.startHeadsUp()
	s.playToShowdown()

	s.Require().NoError(s.coordinator.Disconnect(s.ctx, tableID, bob))
	view := s.lastState(a)
	s.Equal(model.GameStateWaiting, view.State)
	s.Len(view.Players, 1)

	a.Reset()
	s.clock.Advance(time.Minute)
	s.Empty(a.Messages())
}

func (s *CoordinatorSuite) TestFailedDeliveryDropsPlayer() {
	a, b := s.startHeadsUp()
	b.Fail()
	a.Reset()

	s.act(alice, model.ActionCall, 0)

	s.True(b.Closed())
	winners := a.OfType(model.MessageWinner)
	s.Require().Len(winners, 1)
	s.Equal(20, winners[0].Payload.(model.Payout).Amount)
	s.Empty(winners[0].Payload.(model.Payout).Hand)

	view := s.lastState(a)
	s.Equal(model.GameStateWaiting, view.State)
	s.Require().Len(view.Players, 1)
	s.Equal(1010, view.Players[0].Chips)
	s.Equal(1, s.directory().PlayerCount)
}

// Disconnect tests

func (s *CoordinatorSuite) TestDisconnectLeavingOneContenderEndsHand() {
	a, b := s.startHeadsUp()
	s.random.QueueString("carol001")
	_, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: tableID, Name: "Carol"}, testutil.NewRecordingConn())
	s.Require().NoError(err)
	b.Reset()

	s.Require().NoError(s.coordinator.Disconnect(s.ctx, tableID, alice))
	s.True(a.Closed())

	winners := b.OfType(model.MessageWinner)
	s.Require().Len(winners, 1)
	payout := winners[0].Payload.(model.Payout)
	s.Equal(bob, payout.PlayerID)
	s.Equal(15, payout.Amount)
	s.Equal(model.HandRankUncontested, payout.HandRank)
	s.Empty(payout.Hand)

	snapshot, err := s.coordinator.Snapshot(s.ctx, tableID)
	s.Require().NoError(err)
	s.Equal(model.GameStateShowdown, snapshot.State)
	s.False(snapshot.Players[0].Active)
	s.Equal(1, s.clock.PendingTimers())
}

func (s *CoordinatorSuite) TestLastDisconnectRemovesTable() {
	s.createTable(model.DefaultTableSettings(), "")
	s.join(alice, "Alice")

	s.Require().NoError(s.coordinator.Disconnect(s.ctx, tableID, alice))

	s.Equal(0, s.coordinator.GameCount())
	_, err := s.lobby.GetTable(s.ctx, tableID)
	s.ErrorIs(err, model.ErrTableNotFound)
	s.ErrorIs(s.coordinator.Disconnect(s.ctx, tableID, alice), model.ErrGameNotFound)
}

// Chat tests

func (s *CoordinatorSuite) TestChatRelayedToEveryone() {
	a, b := s.startHeadsUp()
	a.Reset()
	b.Reset()

	s.Require().NoError(s.coordinator.HandleChat(s.ctx, tableID, bob, "nice hand"))

	want := []model.Message{{
		Type:    model.MessageChat,
		Payload: model.ChatPayload{PlayerID: bob, PlayerName: "Bob", Message: "nice hand"},
	}}
	s.Equal(want, a.Messages())
	s.Equal(want, b.Messages())
}

func (s *CoordinatorSuite) TestChatIsTrimmed() {
	a, b := s.startHeadsUp()
	a.Reset()
	b.Reset()

	s.Require().NoError(s.coordinator.HandleChat(s.ctx, tableID, bob, "   hi   "))
	// Surrounding whitespace does not count towards the limit
	padded := "  " + strings.Repeat("x", model.MaxChatLength) + "  "
	s.Require().NoError(s.coordinator.HandleChat(s.ctx, tableID, bob, padded))

	want := []model.Message{
		{Type: model.MessageChat, Payload: model.ChatPayload{PlayerID: bob, PlayerName: "Bob", Message: "hi"}},
		{Type: model.MessageChat, Payload: model.ChatPayload{PlayerID: bob, PlayerName: "Bob", Message: strings.Repeat("x", model.MaxChatLength)}},
	}
	s.Equal(want, a.Messages())
	s.Equal(want, b.Messages())
}

func (s *CoordinatorSuite) TestChatValidation() {
	a, b := s.startHeadsUp()
	a.Reset()
	b.Reset()

	err := s.coordinator.HandleChat(s.ctx, tableID, bob, strings.Repeat("x", model.MaxChatLength+1))
	s.ErrorIs(err, model.ErrChatTooLong)
	err = s.coordinator.HandleChat(s.ctx, tableID, bob, "   ")
	s.ErrorIs(err, model.ErrInvalidChat)

	s.Empty(a.Messages())
	s.Equal([]model.Message{
		model.NewErrorMessage("Chat message too long."),
		model.NewErrorMessage("Invalid chat message format."),
	}, b.Messages())

	s.NoError(s.coordinator.HandleChat(s.ctx, tableID, bob, strings.Repeat("x", model.MaxChatLength)))
}

func (s *CoordinatorSuite) TestConcurrentCommandsSeeOneOrder() {
	a, b := s.startHeadsUp()
	a.Reset()
	b.Reset()

	var wg sync.WaitGroup
	for _, player := range []model.PlayerID{alice, bob} {
		wg.Add(1)
		go func(player model.PlayerID) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = s.coordinator.HandleChat(s.ctx, tableID, player, fmt.Sprintf("%s %d", player, i))
			}
		}(player)
	}
	wg.Wait()

	s.Len(a.Messages(), 100)
	s.Equal(a.Messages(), b.Messages(), "every connection sees the same order")
}

// Snapshot and Close tests

func (s *CoordinatorSuite) TestSnapshotHidesHoleCards() {
	s.startHeadsUp()
	snapshot, err := s.coordinator.Snapshot(s.ctx, tableID)
	s.Require().NoError(err)
	s.Equal(model.GameStatePreflop, snapshot.State)
	for _, p := range snapshot.Players {
		s.Empty(p.HoleCards)
	}

	_, err = s.coordinator.Snapshot(s.ctx, "missing1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *CoordinatorSuite) TestCloseEndsGames() {
	a, b := s.startHeadsUp()
	s.playToShowdown()

	s.coordinator.Close()

	s.True(a.Closed())
	s.True(b.Closed())
	s.Equal(0, s.coordinator.GameCount())
	s.Equal(0, s.clock.PendingTimers())

	s.random.QueueString("carol001")
	_, err := s.coordinator.Join(s.ctx, JoinRequest{TableID: tableID, Name: "Carol"}, testutil.NewRecordingConn())
	s.ErrorIs(err, model.ErrServerClosed)
}

package cli

import (
	"encoding/json"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/holdem/internal/model"
)

type fakeConn struct {
	frames  []Frame
	actions []model.Action
	chats   []string
}

func (c *fakeConn) Next() (Frame, error) {
	if len(c.frames) == 0 {
		return Frame{}, ErrStreamClosed
	}
	f := c.frames[0]
	c.frames = c.frames[1:]
	return f, nil
}

func (c *fakeConn) SendAction(action model.Action) error {
	c.actions = append(c.actions, action)
	return nil
}

func (c *fakeConn) SendChat(text string) error {
	c.chats = append(c.chats, text)
	return nil
}

func frame(t *testing.T, typ model.MessageType, payload any) Frame {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return Frame{Type: typ, Payload: data}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys through Update, running any command they produce
func press(t *testing.T, m PlayModel, keys ...tea.KeyMsg) PlayModel {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(k)
		m = next.(PlayModel)
		if cmd != nil {
			if msg := cmd(); msg != nil {
				next, _ = m.Update(msg)
				m = next.(PlayModel)
			}
		}
	}
	return m
}

func TestPlayModelActionKeys(t *testing.T) {
	tests := []struct {
		keys []tea.KeyMsg
		want model.Action
	}{
		{[]tea.KeyMsg{runes("f")}, model.Action{Type: model.ActionFold}},
		{[]tea.KeyMsg{runes("k")}, model.Action{Type: model.ActionCheck}},
		{[]tea.KeyMsg{runes("c")}, model.Action{Type: model.ActionCall}},
		{[]tea.KeyMsg{runes("b"), runes("4"), runes("0"), {Type: tea.KeyEnter}}, model.Action{Type: model.ActionBet, Amount: 40}},
		{[]tea.KeyMsg{runes("r"), runes("1x2"), {Type: tea.KeyBackspace}, runes("5"), {Type: tea.KeyEnter}}, model.Action{Type: model.ActionRaise, Amount: 15}},
	}

	for _, tt := range tests {
		t.Run(string(tt.want.Type), func(t *testing.T) {
			conn := &fakeConn{}
			press(t, NewPlayModel(conn), tt.keys...)
			assert.Equal(t, []model.Action{tt.want}, conn.actions)
		})
	}
}

func TestPlayModelAmountValidation(t *testing.T) {
	conn := &fakeConn{}

	m := press(t, NewPlayModel(conn), runes("b"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, conn.actions)
	require.Error(t, m.err)
	assert.Equal(t, modeAmount, m.mode)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeNormal, m.mode)
}

func TestPlayModelChat(t *testing.T) {
	conn := &fakeConn{}

	m := press(t, NewPlayModel(conn),
		runes("t"), runes("nice"), tea.KeyMsg{Type: tea.KeySpace}, runes("hand"), tea.KeyMsg{Type: tea.KeyEnter},
	)

	assert.Equal(t, []string{"nice hand"}, conn.chats)
	assert.Empty(t, conn.actions)
	assert.Equal(t, modeNormal, m.mode)
}

func TestPlayModelFrames(t *testing.T) {
	m := NewPlayModel(&fakeConn{})

	for _, f := range []Frame{
		frame(t, model.MessageWelcome, model.WelcomePayload{PlayerID: "alice001", PlayerName: "Alice", GameID: "table001"}),
		frame(t, model.MessageGameState, model.GameView{
			ID:    "table001",
			State: model.GameStatePreflop,
			Pot:   15,
			Players: []model.SeatView{
				{ID: "alice001", Name: "Alice", Chips: 995, Bet: 5, Active: true,
					HoleCards: []model.Card{{Suit: model.SuitSpades, Rank: model.RankAce}, {Suit: model.SuitHearts, Rank: model.RankAce}}},
				{ID: "bob00001", Name: "Bob", Chips: 990, Bet: 10, Active: true},
			},
			YourTurn: true,
		}),
		frame(t, model.MessageChat, model.ChatPayload{PlayerName: "Bob", Message: "gl"}),
		frame(t, model.MessageError, model.ErrorPayload{Message: "Not your turn."}),
	} {
		next, cmd := m.Update(frameMsg(f))
		m = next.(PlayModel)
		assert.NotNil(t, cmd, "every frame schedules the next read")
	}

	assert.Equal(t, model.PlayerID("alice001"), m.me)
	require.NotNil(t, m.view)
	assert.EqualError(t, m.err, "Not your turn.")

	view := m.View()
	assert.Contains(t, view, "Table table001 - playing as Alice")
	assert.Contains(t, view, "PREFLOP - your turn")
	assert.Contains(t, view, "Pot 15")
	assert.Contains(t, view, "A♠")
	assert.Contains(t, view, "[Bob] gl")
}

func TestPlayModelStreamEnd(t *testing.T) {
	conn := &fakeConn{}
	m := NewPlayModel(conn)

	next, _ := m.Update(streamMsg{err: ErrStreamClosed})
	m = next.(PlayModel)
	assert.True(t, m.done)
	assert.NoError(t, m.err)

	m = press(t, m, runes("f"))
	assert.Empty(t, conn.actions, "no actions once disconnected")

	next, _ = NewPlayModel(conn).Update(streamMsg{err: errors.New("reset by peer")})
	assert.EqualError(t, next.(PlayModel).err, "reset by peer")
}

func TestPlayModelQuit(t *testing.T) {
	_, cmd := NewPlayModel(&fakeConn{}).Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/holdem/internal/api/response"
	"github.com/mcoot/holdem/internal/model"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func TestPrintTableList(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputTo("text", &buf)

	out.Print(response.TableList{Tables: []response.Table{{
		ID:          "table001",
		Name:        "Friday",
		Settings:    response.TableSettings{SmallBlind: 5, BigBlind: 10, StartingChips: 1000, MaxPlayers: 9},
		State:       "preflop",
		PlayerCount: 3,
	}}})

	assert.Contains(t, buf.String(), "table001")
	assert.Contains(t, buf.String(), "Friday")
	assert.Contains(t, buf.String(), "5/10")
	assert.Contains(t, buf.String(), "3/9")

	buf.Reset()
	out.Print(response.TableList{})
	assert.Equal(t, "No open tables\n", buf.String())
}

func TestPrintHandList(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputTo("text", &buf)

	out.Print(response.HandList{Hands: []response.Hand{{
		HandNumber: 7,
		Board:      []model.Card{{Suit: model.SuitClubs, Rank: model.RankTen}},
		Pot:        60,
		Winners:    []model.Payout{{PlayerName: "Alice", Amount: 60, HandRank: "Three of a Kind"}},
	}}})

	assert.Contains(t, buf.String(), "10♣")
	assert.Contains(t, buf.String(), "Alice +60 (Three of a Kind)")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputTo("json", &buf)

	out.Print(response.Health{Status: "ok", Games: 2})

	var got response.Health
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, response.Health{Status: "ok", Games: 2}, got)
}

func TestWinnerLine(t *testing.T) {
	assert.Equal(t, "Bob wins 15 uncontested",
		WinnerLine(model.Payout{PlayerName: "Bob", Amount: 15, HandRank: model.HandRankUncontested}))
	assert.Equal(t, "Alice wins 60 with One Pair (A♠ A♥)",
		WinnerLine(model.Payout{
			PlayerName: "Alice", Amount: 60, HandRank: "One Pair",
			Hand: []model.Card{{Suit: model.SuitSpades, Rank: model.RankAce}, {Suit: model.SuitHearts, Rank: model.RankAce}},
		}))
}

func TestFramePrinter(t *testing.T) {
	var buf bytes.Buffer
	p := &framePrinter{w: &buf}

	require.NoError(t, p.print(frame(t, model.MessageWelcome, model.WelcomePayload{PlayerID: "alice001", PlayerName: "Alice", GameID: "table001"})))
	require.NoError(t, p.print(frame(t, model.MessageChat, model.ChatPayload{PlayerName: "Bob", Message: "hi"})))
	require.NoError(t, p.print(frame(t, model.MessageError, model.ErrorPayload{Message: "Not your turn."})))
	require.NoError(t, p.print(frame(t, model.MessageHeartbeatAck, model.HeartbeatAckPayload{Timestamp: time.Now().UnixMilli(), Status: "ok"})))

	assert.Equal(t, model.PlayerID("alice001"), p.me)
	assert.Contains(t, buf.String(), "Seated as Alice (alice001) at table table001")
	assert.Contains(t, buf.String(), "[Bob] hi")
	assert.Contains(t, buf.String(), "Not your turn.")
	assert.NotContains(t, buf.String(), "heartbeat_ack", "acks only shown when verbose")

	assert.Error(t, p.print(Frame{Type: model.MessageGameState, Payload: json.RawMessage(`"nope"`)}))
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		server string
		opts   JoinOptions
		want   string
	}{
		{"http://localhost:8080", JoinOptions{}, "ws://localhost:8080/ws"},
		{"https://poker.example.com/", JoinOptions{TableID: "table001", Name: "Al Ice"}, "wss://poker.example.com/ws?name=Al+Ice&table=table001"},
		{"http://host/prefix", JoinOptions{TableID: "t1", Password: "pw"}, "ws://host/prefix/ws?password=pw&table=t1"},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			c := &Config{ServerURL: tt.server}
			got, err := c.WebsocketURL(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := (&Config{ServerURL: "ftp://host"}).WebsocketURL(JoinOptions{})
	assert.Error(t, err)
}

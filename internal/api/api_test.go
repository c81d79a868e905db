package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/holdem/internal/api"
	"github.com/mcoot/holdem/internal/api/apierr"
	"github.com/mcoot/holdem/internal/api/response"
	"github.com/mcoot/holdem/internal/factory"
	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/coordinator"
	"github.com/mcoot/holdem/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		LobbyController: app.LobbyController,
		Coordinator:     app.Coordinator,
		Storage:         app.Storage,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createTable(t *testing.T, id string, body map[string]any) response.Table {
	t.Helper()
	ts.app.MockRandom.QueueString(id)
	rr := ts.request(http.MethodPost, "/api/v1/tables", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var table response.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	return table
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, response.Health{Status: "ok", Games: 0}, resp)
}

func TestCreateTableWithDefaults(t *testing.T) {
	ts := newTestServer(t)

	table := ts.createTable(t, "table001", map[string]any{"name": "Friday"})

	assert.Equal(t, "table001", table.ID)
	assert.Equal(t, "Friday", table.Name)
	assert.Equal(t, response.TableSettings{SmallBlind: 5, BigBlind: 10, StartingChips: 1000, MaxPlayers: 9}, table.Settings)
	assert.False(t, table.Private)
	assert.Equal(t, "waiting", table.State)
}

func TestCreatePrivateTableHidesHash(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("secret01")

	rr := ts.request(http.MethodPost, "/api/v1/tables", map[string]any{
		"name": "Home Game", "small_blind": 1, "big_blind": 2, "starting_chips": 200, "max_players": 6, "password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")

	var table response.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	assert.True(t, table.Private)
	assert.Equal(t, 6, table.Settings.MaxPlayers)

	// Private tables stay out of the listing
	rr = ts.request(http.MethodGet, "/api/v1/tables", nil)
	var list response.TableList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Empty(t, list.Tables)
}

func TestCreateTableValidation(t *testing.T) {
	tests := []struct {
		name string
		body any
		code string
	}{
		{"malformed body", "not an object", apierr.CodeInvalidRequest},
		{"blinds reversed", map[string]any{"small_blind": 20, "big_blind": 10}, apierr.CodeInvalidSettings},
		{"chips below big blind", map[string]any{"starting_chips": 5}, apierr.CodeInvalidSettings},
		{"too many players", map[string]any{"max_players": 10}, apierr.CodeInvalidSettings},
		{"name too long", map[string]any{"name": strings.Repeat("n", 41)}, apierr.CodeInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.app.MockRandom.QueueString("table001")

			rr := ts.request(http.MethodPost, "/api/v1/tables", tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}

func TestListTables(t *testing.T) {
	ts := newTestServer(t)
	ts.createTable(t, "table001", map[string]any{"name": "First"})
	ts.app.MockClock.Advance(time.Minute)
	ts.createTable(t, "table002", map[string]any{"name": "Second"})

	rr := ts.request(http.MethodGet, "/api/v1/tables", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list response.TableList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Tables, 2)
	assert.Equal(t, "First", list.Tables[0].Name)
	assert.Equal(t, "Second", list.Tables[1].Name)
}

func TestGetTable(t *testing.T) {
	ts := newTestServer(t)
	ts.createTable(t, "table001", map[string]any{})

	t.Run("no live game", func(t *testing.T) {
		rr := ts.request(http.MethodGet, "/api/v1/tables/table001", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var detail response.TableDetail
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
		assert.Equal(t, "table001", detail.ID)
		assert.Nil(t, detail.Game)
	})

	t.Run("live game hides hole cards", func(t *testing.T) {
		ctx := context.Background()
		ts.app.MockRandom.QueueString("alice001", "bob00001")
		for _, name := range []string{"Alice", "Bob"} {
			_, err := ts.app.Coordinator.Join(ctx, coordinator.JoinRequest{TableID: "table001", Name: name}, testutil.NewRecordingConn())
			require.NoError(t, err)
		}

		rr := ts.request(http.MethodGet, "/api/v1/tables/table001", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var detail response.TableDetail
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
		require.NotNil(t, detail.Game)
		assert.Equal(t, model.GameStatePreflop, detail.Game.State)
		assert.Equal(t, 2, detail.PlayerCount)
		for _, p := range detail.Game.Players {
			assert.Empty(t, p.HoleCards)
		}
	})

	t.Run("unknown table", func(t *testing.T) {
		rr := ts.request(http.MethodGet, "/api/v1/tables/missing1", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, apierr.CodeTableNotFound, decodeError(t, rr).Code)
	})
}

func TestHandHistory(t *testing.T) {
	ts := newTestServer(t)
	ts.createTable(t, "table001", map[string]any{})
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		require.NoError(t, ts.app.Storage.SaveHand(ctx, &model.HandRecord{
			ID:         fmt.Sprintf("hand-%d", i),
			GameID:     "table001",
			HandNumber: i,
			Pot:        i * 10,
		}))
	}

	tests := []struct {
		query     string
		wantCount int
		wantFirst int
	}{
		{"", 20, 25},
		{"?limit=3", 3, 25},
		{"?limit=500", 25, 25},
	}
	for _, tt := range tests {
		t.Run("limit"+tt.query, func(t *testing.T) {
			rr := ts.request(http.MethodGet, "/api/v1/tables/table001/hands"+tt.query, nil)
			require.Equal(t, http.StatusOK, rr.Code)

			var list response.HandList
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
			require.Len(t, list.Hands, tt.wantCount)
			assert.Equal(t, tt.wantFirst, list.Hands[0].HandNumber)
			assert.Equal(t, []model.Card{}, list.Hands[0].Board)
		})
	}

	rr := ts.request(http.MethodGet, "/api/v1/tables/table001/hands?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/tables/missing1/hands", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

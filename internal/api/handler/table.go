package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/holdem/internal/api/apierr"
	"github.com/mcoot/holdem/internal/api/request"
	"github.com/mcoot/holdem/internal/api/response"
	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/coordinator"
	"github.com/mcoot/holdem/internal/services/lobby"
	"github.com/mcoot/holdem/internal/storage"
)

// Hand history paging
const (
	DefaultHandLimit = 20
	MaxHandLimit     = 100
)

// TableHandler handles table directory and history endpoints
type TableHandler struct {
	lobbyController *lobby.Controller
	coordinator     *coordinator.Coordinator
	storage         storage.Storage
}

// NewTableHandler creates a new table handler
func NewTableHandler(lobbyController *lobby.Controller, coordinator *coordinator.Coordinator, storage storage.Storage) *TableHandler {
	return &TableHandler{
		lobbyController: lobbyController,
		coordinator:     coordinator,
		storage:         storage,
	}
}

// List handles GET /api/v1/tables
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.lobbyController.ListTables(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := response.TableList{Tables: make([]response.Table, len(tables))}
	for i, t := range tables {
		resp.Tables[i] = response.TableFromModel(t)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/tables
func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	settings := h.lobbyController.Defaults()
	if req.SmallBlind != 0 {
		settings.SmallBlind = req.SmallBlind
	}
	if req.BigBlind != 0 {
		settings.BigBlind = req.BigBlind
	}
	if req.StartingChips != 0 {
		settings.StartingChips = req.StartingChips
	}
	if req.MaxPlayers != 0 {
		settings.MaxPlayers = req.MaxPlayers
	}

	table, err := h.lobbyController.CreateTable(r.Context(), lobby.CreateTableParams{
		Name:     req.Name,
		Settings: settings,
		Password: req.Password,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TableFromModel(table))
}

// Get handles GET /api/v1/tables/{id}
func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	table, err := h.lobbyController.GetTable(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := response.TableDetail{Table: response.TableFromModel(table)}
	snapshot, err := h.coordinator.Snapshot(r.Context(), id)
	switch {
	case err == nil:
		resp.Game = &snapshot
	case !errors.Is(err, model.ErrGameNotFound):
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Hands handles GET /api/v1/tables/{id}/hands?limit=N
func (h *TableHandler) Hands(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	limit := DefaultHandLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = min(n, MaxHandLimit)
	}

	if _, err := h.lobbyController.GetTable(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	hands, err := h.storage.ListHands(r.Context(), id, limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := response.HandList{Hands: make([]response.Hand, len(hands))}
	for i, hand := range hands {
		resp.Hands[i] = response.HandFromModel(hand)
	}
	response.JSON(w, http.StatusOK, resp)
}

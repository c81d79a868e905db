package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/holdem/internal/api/apierr"
	"github.com/mcoot/holdem/internal/api/handler"
	"github.com/mcoot/holdem/internal/middleware"
	"github.com/mcoot/holdem/internal/services/coordinator"
	"github.com/mcoot/holdem/internal/services/lobby"
	"github.com/mcoot/holdem/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	LobbyController *lobby.Controller
	Coordinator     *coordinator.Coordinator
	Storage         storage.Storage
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	tableHandler := handler.NewTableHandler(cfg.LobbyController, cfg.Coordinator, cfg.Storage)
	healthHandler := handler.NewHealthHandler(cfg.Coordinator)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger, jsonPanicHandler))
	api.Use(middleware.Logging(cfg.Logger))

	// Table routes
	api.HandleFunc("/tables", tableHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/tables", tableHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/tables/{id}", tableHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/tables/{id}/hands", tableHandler.Hands).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	return r
}

// jsonPanicHandler keeps panics inside the API's error envelope
func jsonPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/holdem/internal/dependencies/clock"
	"github.com/mcoot/holdem/internal/middleware"
	"github.com/mcoot/holdem/internal/services/coordinator"
	"github.com/mcoot/holdem/internal/web/ws"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *coordinator.Coordinator
	Clock       clock.Clock
	StaticDir   string // Optional browser client to serve at /
}

// NewRouter creates the router for the player-facing endpoints: the game
// websocket and the static client
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger, middleware.PlainPanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	r.Handle("/ws", ws.NewHandler(cfg.Coordinator, cfg.Clock, cfg.Logger)).Methods(http.MethodGet)

	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}

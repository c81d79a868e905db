package handler

import (
	"net/http"

	"github.com/mcoot/holdem/internal/api/response"
	"github.com/mcoot/holdem/internal/services/coordinator"
)

// HealthHandler reports liveness
type HealthHandler struct {
	coordinator *coordinator.Coordinator
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(coordinator *coordinator.Coordinator) *HealthHandler {
	return &HealthHandler{coordinator: coordinator}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Games: h.coordinator.GameCount()})
}

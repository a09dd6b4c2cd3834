package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/harmonyapp/harmonyd/internal/repository"
)

// HealthHandler handles liveness and readiness endpoints.
type HealthHandler struct {
	history *repository.HistoryRepository
}

// NewHealthHandler creates a new health handler. history may be nil.
func NewHealthHandler(history *repository.HistoryRepository) *HealthHandler {
	return &HealthHandler{history: history}
}

// RootResponse is the JSON response for GET /.
type RootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// HealthResponse is the JSON response for health probes.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: "Harmony Audio Service",
		Status:  "running",
	})
}

// Live handles GET /health - liveness probe.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready - readiness probe. Degrades when the history
// database is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.history != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.history.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body.Status = "degraded"
		}
	}

	writeJSON(w, status, body)
}

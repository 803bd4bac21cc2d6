package handler

import (
	"log/slog"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// Health handles GET /api/health: a store round-trip plus the current time.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("health check: database ping failed", "error", err)
		writeError(w, http.StatusInternalServerError, "database_unavailable", "Database connection failed")
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: time.Now().UTC(),
	})
}

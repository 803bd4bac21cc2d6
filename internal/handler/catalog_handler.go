package handler

import (
	"net/http"

	"github.com/writingportfolio/backend/internal/catalog"
	"github.com/writingportfolio/backend/internal/model"
)

type rootResponse struct {
	Message  string   `json:"message"`
	Version  string   `json:"version"`
	Services []string `json:"services"`
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message:  catalog.APIName,
		Version:  catalog.APIVersion,
		Services: catalog.Headline(),
	})
}

type servicesResponse struct {
	Services []model.Service `json:"services"`
}

// Services handles GET /api/services.
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, servicesResponse{Services: catalog.Services()})
}

// NotFound answers unmatched routes with the JSON error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "Not Found")
}

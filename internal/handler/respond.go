package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error  string            `json:"error"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorResponse{Error: code, Detail: detail})
}

func writeValidationError(w http.ResponseWriter, detail string, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:  "validation_failed",
		Detail: detail,
		Fields: fields,
	})
}

// writeInternalError logs err and answers with a generic 500; err never reaches the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err, "method", r.Method, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

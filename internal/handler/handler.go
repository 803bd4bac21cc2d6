package handler

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/writingportfolio/backend/internal/repository"
)

// Handler serves the endpoints that do not touch contact data:
// metadata, health and the service catalog.
type Handler struct {
	db repository.DB
}

func New(db repository.DB) *Handler {
	return &Handler{db: db}
}

// openCORS allows any origin, method and header. The API carries no
// credentials, so this is not a security boundary.
var openCORS = cors.New(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
		http.MethodHead,
	},
	AllowedHeaders: []string{"*"},
})

// CORS answers preflight requests and decorates every response with
// the open CORS headers.
func CORS(next http.Handler) http.Handler {
	return openCORS.Handler(next)
}

package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/writingportfolio/backend/internal/repository"
	"github.com/writingportfolio/backend/internal/service"
)

// RouterConfig carries everything NewRouter wires into the mux.
type RouterConfig struct {
	DB       repository.DB
	Contacts service.ContactService

	// ContactRateLimit wraps POST /api/contact when non-nil.
	ContactRateLimit func(http.Handler) http.Handler

	// MetricsPath exposes Prometheus metrics when non-empty.
	MetricsPath string
}

// NewRouter builds the full HTTP handler: routes plus middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	h := New(cfg.DB)
	contactHandler := NewContactHandler(cfg.Contacts)

	var submit http.Handler = http.HandlerFunc(contactHandler.Submit)
	if cfg.ContactRateLimit != nil {
		submit = cfg.ContactRateLimit(submit)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/services", h.Services)

	mux.Handle("POST /api/contact", submit)
	mux.HandleFunc("GET /api/contacts", contactHandler.List)
	mux.HandleFunc("GET /api/contacts/{id}", contactHandler.Get)
	mux.HandleFunc("PUT /api/contacts/{id}/status", contactHandler.UpdateStatus)
	mux.HandleFunc("GET /api/stats", contactHandler.Stats)

	if cfg.MetricsPath != "" {
		mux.Handle("GET "+cfg.MetricsPath, promhttp.Handler())
	}
	mux.HandleFunc("/", NotFound)

	return RequestLogger(Metrics(CORS(SecurityHeaders(mux))))
}

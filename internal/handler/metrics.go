package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests broken down by route, method and status code.",
	}, []string{"route", "method", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portfolio",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution of HTTP requests by route.",
		Buckets: []float64{
			0.001, 0.005,
			0.01, 0.025, 0.05,
			0.1, 0.25, 0.5,
			1, 2.5, 5,
		},
	}, []string{"route", "method"})

	contactSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "contacts",
		Name:      "submissions_total",
		Help:      "Contact form submissions by result (accepted, invalid, failed).",
	}, []string{"result"})

	statusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "contacts",
		Name:      "status_updates_total",
		Help:      "Successful contact status changes by target status.",
	}, []string{"status"})

	statsLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "portfolio",
		Subsystem: "contacts",
		Name:      "stats_duration_seconds",
		Help:      "Time spent recounting contacts for GET /api/stats.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Metrics records request counts and latency per matched route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sr, r)

		route := routeLabel(r)
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(sr.statusCode)).Inc()
		httpLatency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// routeLabel uses the ServeMux pattern so path parameters do not explode
// label cardinality.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}

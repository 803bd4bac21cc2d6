package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// SecurityHeaders adds security response headers suited to a JSON API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

const rateLimitPrefix = "portfolio_rate_limit"

// NewMemoryStore returns an in-process limiter store.
func NewMemoryStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          rateLimitPrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
}

// NewRedisStore returns a limiter store shared through Redis, so limits hold
// across several API instances.
func NewRedisStore(url string) (limiter.Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return sredis.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{Prefix: rateLimitPrefix})
}

// RateLimit returns middleware limiting each client IP to rate, expressed in
// limiter's "<limit>-<period>" format (e.g. "10-M"). The client IP comes from
// RemoteAddr unless trustForwardHeader is set.
func RateLimit(rate string, store limiter.Store, trustForwardHeader bool) (func(http.Handler) http.Handler, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", rate, err)
	}

	mw := stdlib.NewMiddleware(
		limiter.New(store, parsed, limiter.WithTrustForwardHeader(trustForwardHeader)),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, please try again later")
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("rate limiter store failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		}),
	)
	return mw.Handler, nil
}

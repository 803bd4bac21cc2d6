package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/writingportfolio/backend/internal/config"
	"github.com/writingportfolio/backend/internal/handler"
	"github.com/writingportfolio/backend/internal/logging"
	"github.com/writingportfolio/backend/internal/repository"
	"github.com/writingportfolio/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, contactRepo, closeStore := openStore(ctx, cfg)
	defer closeStore()

	contactService := service.NewContactService(contactRepo, cfg.RecentWindow)

	routerCfg := handler.RouterConfig{
		DB:       db,
		Contacts: contactService,
	}
	if cfg.RateLimit.Enabled {
		limit, err := handler.RateLimit(cfg.RateLimit.Contact, rateLimitStore(cfg.RateLimit), cfg.RateLimit.TrustForwardHeader)
		if err != nil {
			logging.Fatal("invalid contact rate limit", "rate", cfg.RateLimit.Contact, "error", err)
		}
		routerCfg.ContactRateLimit = limit
	}
	if cfg.Prometheus.Enabled {
		routerCfg.MetricsPath = cfg.Prometheus.Path
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "driver", cfg.Driver, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

// openStore はドライバ設定に従ってストアに接続する
func openStore(ctx context.Context, cfg *config.Config) (repository.DB, repository.ContactRepository, func()) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := repository.NewPool(connectCtx, cfg.Postgres.URL)
		if err != nil {
			logging.Fatal("failed to connect to database", "driver", cfg.Driver, "error", err)
		}
		return pool, repository.NewPgContactRepository(pool), pool.Close

	default:
		m, err := repository.NewMongo(connectCtx, cfg.Mongo.URL, cfg.Mongo.Database)
		if err != nil {
			logging.Fatal("failed to connect to database", "driver", cfg.Driver, "error", err)
		}
		// インデックス作成に失敗しても起動は続ける
		if names, err := m.EnsureContactIndexes(connectCtx, cfg.Mongo.Collection); err != nil {
			slog.Error("ensure contact indexes failed", "collection", cfg.Mongo.Collection, "error", err)
		} else {
			slog.Info("contact indexes ready", "collection", cfg.Mongo.Collection, "indexes", names)
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.Close(closeCtx); err != nil {
				slog.Error("mongo disconnect failed", "error", err)
			}
		}
		return m, repository.NewMongoContactRepository(m.Collection(cfg.Mongo.Collection)), closeFn
	}
}

// rateLimitStore returns the configured limiter store, falling back to
// memory when Redis cannot be used.
func rateLimitStore(opts config.RateLimitOptions) limiter.Store {
	if opts.Storage == "redis" {
		store, err := handler.NewRedisStore(opts.RedisURL)
		if err == nil {
			return store
		}
		slog.Warn("redis rate limit store unavailable, using memory", "error", err)
	}
	return handler.NewMemoryStore()
}

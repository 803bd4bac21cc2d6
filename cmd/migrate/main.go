package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/writingportfolio/backend/internal/config"
	"github.com/writingportfolio/backend/internal/logging"
	"github.com/writingportfolio/backend/internal/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   差分マイグレーションを適用 (mongo: インデックス作成)
  fresh       全テーブル/コレクションを DROP し、全マイグレーションを順番に適用`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load(".env", ".env.local", "../.env")
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd != "" && cmd != "fresh" {
		usage()
	}
	fresh := cmd == "fresh"

	ctx := context.Background()
	switch cfg.Driver {
	case config.DriverPostgres:
		migratePostgres(ctx, cfg.Postgres.URL, fresh)
	default:
		migrateMongo(ctx, cfg.Mongo, fresh)
	}
}

// ---------------------------------------------------------------------------
// MongoDB: コレクションのインデックス
// ---------------------------------------------------------------------------
func migrateMongo(ctx context.Context, opts config.MongoOptions, fresh bool) {
	m, err := repository.NewMongo(ctx, opts.URL, opts.Database)
	if err != nil {
		logging.Fatal("connect failed", "driver", config.DriverMongo, "error", err)
	}
	defer func() { _ = m.Close(ctx) }()

	if fresh {
		slog.Info("dropping collection", "collection", opts.Collection)
		if err := m.DropCollection(ctx, opts.Collection); err != nil {
			logging.Fatal("drop collection failed", "collection", opts.Collection, "error", err)
		}
	}

	names, err := m.EnsureContactIndexes(ctx, opts.Collection)
	if err != nil {
		logging.Fatal("create indexes failed", "collection", opts.Collection, "error", err)
	}
	slog.Info("indexes ready", "database", opts.Database, "collection", opts.Collection, "indexes", names)
}

// ---------------------------------------------------------------------------
// PostgreSQL: SQL マイグレーション
// ---------------------------------------------------------------------------
func migratePostgres(ctx context.Context, url string, fresh bool) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		logging.Fatal("connect failed", "driver", config.DriverPostgres, "error", err)
	}
	defer pool.Close()

	dir := findMigrationDir()
	if fresh {
		runDropAll(ctx, pool, dir)
	}
	runIncremental(ctx, pool, dir)
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

// collectUpFiles は .up.sql ファイル名をソート済みで返す
func collectUpFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Fatal("read migrations dir failed", "error", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		logging.Fatal("create schema_migrations failed", "error", err)
	}
}

func runIncremental(ctx context.Context, pool *pgxpool.Pool, dir string) {
	ensureSchemaMigrations(ctx, pool)

	applied := 0
	for _, filename := range collectUpFiles(dir) {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			logging.Fatal("check migration failed", "migration", name, "error", err)
		}
		if exists {
			continue
		}

		sql, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			logging.Fatal("read migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logging.Fatal("migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			logging.Fatal("record migration failed", "migration", name, "error", err)
		}
		applied++
		slog.Info("migration completed", "migration", name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
}

func runDropAll(ctx context.Context, pool *pgxpool.Pool, dir string) {
	slog.Info("dropping all tables")
	sql, err := os.ReadFile(filepath.Join(dir, "000_drop_all.sql"))
	if err != nil {
		logging.Fatal("read 000_drop_all.sql failed", "error", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		logging.Fatal("drop all failed", "error", err)
	}
	slog.Info("all tables dropped")
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/examforge/examforge/internal/ai"
	"github.com/examforge/examforge/internal/api"
	"github.com/examforge/examforge/internal/blueprint"
	"github.com/examforge/examforge/internal/platform/cache"
	"github.com/examforge/examforge/internal/platform/config"
	"github.com/examforge/examforge/internal/platform/database"
	"github.com/examforge/examforge/internal/store"
	"github.com/examforge/examforge/internal/syllabus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	recordStore, cleanup, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var paperCache *cache.Cache
	if cfg.Cache.URL != "" {
		paperCache, err = cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			// The cache is an optimization; the server runs without it.
			logger.Warn("cache unavailable, continuing without", "error", err)
			paperCache = nil
		} else {
			defer paperCache.Close()
		}
	}

	router := ai.NewRouter()
	if cfg.AI.Google.APIKey != "" {
		router.Register("google", ai.NewGoogleProvider(cfg.AI.Google.APIKey,
			ai.WithGoogleModel(cfg.AI.Google.Model)))
	}
	if cfg.AI.Ollama.Enabled {
		router.Register("ollama", ai.NewOllamaProvider(cfg.AI.Ollama.URL,
			ai.WithOllamaModel(cfg.AI.Ollama.Model)))
	}
	logger.Info("providers registered", "providers", router.Names())

	var blueprints *blueprint.Loader
	if cfg.Blueprint.Dir != "" {
		blueprints, err = blueprint.NewLoader(cfg.Blueprint.Dir)
		if err != nil {
			logger.Error("failed to load blueprints", "dir", cfg.Blueprint.Dir, "error", err)
			os.Exit(1)
		}
		logger.Info("blueprints loaded", "count", len(blueprints.All()))
	}

	server := api.New(api.ServerConfig{
		Store:      recordStore,
		Parser:     syllabus.NewParser(logger),
		Gateway:    router,
		Cache:      paperCache,
		Blueprints: blueprints,
		Generation: cfg.Generation,
		CacheTTL:   time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		Logger:     logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // generation requests are slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// newStore builds the record store for the configured backend. The returned
// cleanup closes any underlying connection pool.
func newStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.RecordStore, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, nil, err
		}
		pg, err := store.NewPostgresStore(ctx, db.Pool)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return pg, db.Close, nil
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	default:
		fs, err := store.NewFileStore(cfg.Storage.Dir, log)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

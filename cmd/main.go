// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shivanand-hulikatti/event-participants/internal/config"
	"github.com/Shivanand-hulikatti/event-participants/internal/database"
	"github.com/Shivanand-hulikatti/event-participants/internal/handler"
	"github.com/Shivanand-hulikatti/event-participants/internal/repository"
	"github.com/Shivanand-hulikatti/event-participants/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Open the document store ───────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("store", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("store ready", "driver", cfg.Store.Driver, "database", cfg.Store.Database, "container", cfg.Store.Container)

	// ── 2. Wire up layers ────────────────────────────────────────────────
	eventSvc := service.NewEventService(store)
	eventHandler := handler.NewEventHandler(eventSvc, cfg.MaxBodyBytes)

	// ── 3. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler.NewRouter(eventHandler),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			slog.Error("server error", "err", err)
			closeStore()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
		return
	}
	slog.Info("server stopped")
}

// openStore creates or opens the configured database and container and
// returns the store with its close function.
func openStore(ctx context.Context, cfg config.Config) (repository.EventStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := database.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		table, err := database.EnsureContainer(ctx, pool, cfg.Store.Database, cfg.Store.Container)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPostgresStore(pool, table), pool.Close, nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLite.Path, cfg.Store.Container)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteStore(db, cfg.Store.Container), func() { _ = db.Close() }, nil

	case config.DriverMemory:
		return repository.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// Package main is the entry point for the games server.
// It only handles dependency injection and server initialization.
// NO simulation logic belongs here.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/panembot/games-server/internal/engine"
	"github.com/panembot/games-server/internal/infra/storage"
	"github.com/panembot/games-server/internal/manager"
	"github.com/panembot/games-server/internal/network"
	"github.com/panembot/games-server/internal/platform/config"
	"github.com/panembot/games-server/internal/platform/logger"
	"github.com/panembot/games-server/internal/platform/metrics"
	"github.com/panembot/games-server/internal/templates"
)

func main() {
	// .env is optional; the environment wins either way.
	_ = godotenv.Load()

	log := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Configuration error: " + err.Error())
		os.Exit(1)
	}

	collector := metrics.NewCollector()

	store, err := templates.NewStore(cfg.TemplateDir, log)
	if err != nil {
		log.Error("Template store error: " + err.Error())
		os.Exit(1)
	}

	repo, err := openRepository(cfg, log)
	if err != nil {
		// Persistence failure must not kill the server: run in-memory.
		log.Warn("Persistence unavailable, running without it: " + err.Error())
		repo = nil
	}

	eng := engine.New(log, collector)
	mgr := manager.New(eng, store, repo, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr.LoadAll(ctx)

	hub := network.NewHub(log, collector)
	mgr.SetNotifier(hub)
	go hub.Run(ctx)

	// SIGHUP is the external notification that template collections
	// changed on disk. In-flight games keep the set they started with.
	go reloadOnSignal(ctx, store, log)

	mux := http.NewServeMux()
	registerRoutes(mux, mgr, log)
	mux.HandleFunc("GET /ws", hub.ServeWS)
	mux.Handle("GET /metrics", collector)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		log.Info("Shutting down...")
		_ = srv.Shutdown(context.Background())
	}()

	log.Info("Games server listening on " + cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server error: " + err.Error())
		os.Exit(1)
	}
}

func openRepository(cfg config.Config, log *logger.Logger) (storage.GameRepository, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := storage.InitPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		log.Info("Using PostgreSQL game store")
		return storage.NewPostgresGameRepository(db), nil
	default:
		db, err := storage.InitSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("Using SQLite game store at " + cfg.SQLitePath)
		return storage.NewSQLiteGameRepository(db), nil
	}
}

func reloadOnSignal(ctx context.Context, store *templates.Store, log *logger.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := store.Reload(); err != nil {
				log.Error("Template reload failed, keeping previous set: " + err.Error())
			} else {
				log.Info("Template collections reloaded")
			}
		}
	}
}

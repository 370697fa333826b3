package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"live-auction/internal/auth"
	"live-auction/internal/config"
	"live-auction/internal/directory"
	"live-auction/internal/repository"
	"live-auction/internal/server"
	"live-auction/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	utils.SetLevel(cfg.LogLevel)
	utils.SetFormat(cfg.LogFormat)

	store, err := openStore(cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"backend": cfg.StoreBackend, "error": err.Error()})
	}

	dir, err := loadDirectory(cfg)
	if err != nil {
		utils.Fatal("failed to load directory", map[string]any{"seed_file": cfg.SeedFile, "error": err.Error()})
	}

	key, err := auth.LoadSigningKey(cfg.JWTSecret, cfg.JWTSecretFile)
	if err != nil {
		utils.Fatal("failed to load signing key", map[string]any{"error": err.Error()})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := server.NewApp(cfg, server.AppDeps{
		Store:      store,
		Directory:  dir,
		SigningKey: key,
		Registry:   reg,
	})
	httpServer := server.CreateServer(cfg.Port, app.Router)

	errCh := make(chan error, 1)
	go func() {
		utils.Info("starting auction server", map[string]any{
			"port":    cfg.Port,
			"backend": cfg.StoreBackend,
			"origins": cfg.AllowedOrigins,
		})
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		utils.Info("shutdown signal received", map[string]any{"signal": sig.String()})
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("server stopped unexpectedly", map[string]any{"error": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked connections are invisible to http.Server.Shutdown
	if err := httpServer.Shutdown(ctx); err != nil {
		utils.Warn("HTTP server shutdown error", map[string]any{"error": err.Error()})
	}
	if err := app.Sessions.Shutdown(ctx); err != nil {
		utils.Warn("sessions did not drain in time", map[string]any{"remaining": app.Sessions.Active()})
	}
	if err := store.Close(); err != nil {
		utils.Error("failed to close store", map[string]any{"error": err.Error()})
	}
	utils.Info("shutdown complete", nil)
}

// openStore returns the configured bid and message store
func openStore(cfg config.Config) (repository.Store, error) {
	if cfg.StoreBackend == config.BackendPebble {
		repo, err := repository.OpenPebbleRepo(cfg.PebblePath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return repository.NewMemoryRepo(), nil
}

// loadDirectory seeds users and items from SEED_FILE, or the demo fixture
func loadDirectory(cfg config.Config) (*directory.Memory, error) {
	dir := directory.NewMemory()
	if cfg.SeedFile != "" {
		return dir, dir.LoadSeed(cfg.SeedFile)
	}
	utils.Info("no SEED_FILE configured, using demo users and items", nil)
	return dir, dir.Apply(directory.DemoSeed())
}

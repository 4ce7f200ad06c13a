package main

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ericogr/arcane-clash/internal/api"
	"github.com/ericogr/arcane-clash/internal/catalog"
	"github.com/ericogr/arcane-clash/internal/config"
	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/hub"
	"github.com/ericogr/arcane-clash/internal/logging"
	"github.com/ericogr/arcane-clash/internal/service"
	"github.com/ericogr/arcane-clash/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, cfg)
	},
}

func runServer(ctx context.Context, cfg *config.LoadedConfig) error {
	repo, closeDB, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeDB()
	store, err := catalogStore(ctx, cfg, repo)
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	if cfg.CatalogBackend == config.CatalogSQLite {
		templates, err := catalog.LoadSeedFile(cfg.CatalogSeedFile)
		if err != nil {
			return err
		}
		if err := storage.SeedIfEmpty(ctx, repo, templates); err != nil {
			return err
		}
	}
	sessions, err := sessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	art := artService(cfg, repo)
	streams := hub.New()
	games, err := service.New(service.Deps{
		Catalog:  store,
		Sessions: sessions,
		Art:      art,
		Stats:    repo,
		Publish:  streams,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, service.Options{
		Flow:        cfg.GameFlow,
		HandSize:    cfg.HandSize,
		CombatDelay: cfg.CombatDelay,
		ArtTimeout:  cfg.GenerationTimeout,
	})
	if err != nil {
		return err
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = os.Getenv(constants.EnvSessionSecret)
	}
	if secret == "" {
		logging.Warn("no session secret configured; seat tokens will not survive a restart", nil, nil)
	}
	seats, err := api.NewSeatSigner(secret, 0)
	if err != nil {
		return err
	}

	if !cfg.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewGameHandler(api.HandlerDeps{
		Games:       games,
		Catalog:     store,
		Assets:      art,
		Leaderboard: repo,
		Stream:      streams,
		Seats:       seats,
	}))

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: cfg.ServerAddress, constants.LogFieldBackend: cfg.CatalogBackend})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutting down server", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/ericogr/arcane-clash/internal/artwork"
	"github.com/ericogr/arcane-clash/internal/catalog"
	"github.com/ericogr/arcane-clash/internal/config"
	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/logging"
	"github.com/ericogr/arcane-clash/internal/openaiclient"
	"github.com/ericogr/arcane-clash/internal/session"
	"github.com/ericogr/arcane-clash/internal/storage"
)

// openRepository opens the sqlite repository. The returned func closes it.
func openRepository(cfg *config.LoadedConfig) (storage.Repository, func(), error) {
	db, err := storage.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	closeDB := func() {
		if err := storage.Close(db); err != nil {
			logging.Error("failed to close database", err, nil)
		}
	}
	return storage.NewSQLiteRepository(db), closeDB, nil
}

// catalogStore returns the configured catalog backend.
func catalogStore(ctx context.Context, cfg *config.LoadedConfig, repo storage.Repository) (catalog.Store, error) {
	switch cfg.CatalogBackend {
	case config.CatalogFirestore:
		fs, err := catalog.NewFirestoreStore(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize firestore catalog: %w", err)
		}
		return fs, nil
	default:
		return catalog.NewSQLStore(repo), nil
	}
}

func sessionStore(ctx context.Context, cfg *config.LoadedConfig) (session.Store, error) {
	if cfg.RedisAddress == "" {
		logging.Info("game sessions kept in memory", nil)
		return session.NewMemoryStore(), nil
	}
	client, err := session.NewRedisClient(ctx, cfg.RedisAddress)
	if err != nil {
		return nil, err
	}
	logging.Info("game sessions stored in redis", logging.Fields{constants.LogFieldAddr: cfg.RedisAddress})
	return session.NewRedisStore(client, cfg.RedisTTL)
}

// artService wires OpenAI when an API key is present; otherwise every card
// gets the placeholder art.
func artService(cfg *config.LoadedConfig, repo storage.Repository) *artwork.Service {
	var (
		images       artwork.ImageGenerator
		descriptions artwork.DescriptionGenerator
	)
	client := openaiclient.New(cfg.ImagePromptTemplate, cfg.DescriptionPromptTemplate, cfg.OpenAITimeout)
	if client.Enabled() {
		images, descriptions = client, client
	} else {
		logging.Warn("card art generation disabled", openaiclient.ErrMissingAPIKey, nil)
	}
	return artwork.New(repo, images, descriptions, cfg.GenerationTimeout)
}

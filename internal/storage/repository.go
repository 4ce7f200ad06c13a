package storage

import (
	"context"
	"errors"

	"github.com/ericogr/arcane-clash/internal/game"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// Catalog templates, ordered by insertion.
	FetchTemplatesByType(ctx context.Context, t game.CardType) ([]game.Template, error)
	AllTemplates(ctx context.Context) ([]game.Template, error)
	CountTemplates(ctx context.Context) (int64, error)
	// UpsertTemplates is idempotent and keyed by title.
	UpsertTemplates(ctx context.Context, templates []game.Template) error

	// Generated asset cache (lookup by canonical card key), e.g. "fire_drake".
	GetCardAsset(key string) (*CardAsset, error)
	SaveCardImage(key, title string, png []byte) error
	SaveCardDescription(key, title, description string) error

	// Match statistics
	UpdateStatsOnGameEnd(s *game.State) error
	GetTopPlayers(limit int) ([]PlayerStats, error)
}

// Package session keeps the latest committed snapshot of every live game.
package session

import (
	"context"
	"errors"

	"github.com/ericogr/arcane-clash/internal/game"
)

// ErrNotFound is returned for unknown or expired games.
var ErrNotFound = errors.New("game session not found")

// Store persists game snapshots by game id. Implementations must not keep a
// reference to the state passed to Save.
type Store interface {
	Get(ctx context.Context, gameID string) (*game.State, error)
	Save(ctx context.Context, s *game.State) error
	Delete(ctx context.Context, gameID string) error
}

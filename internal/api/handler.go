package api

import (
	"context"
	"net/http"

	"github.com/ericogr/arcane-clash/internal/catalog"
	"github.com/ericogr/arcane-clash/internal/engine"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/service"
	"github.com/ericogr/arcane-clash/internal/storage"
)

// Games is the game lifecycle the handlers drive.
type Games interface {
	CreateGame(ctx context.Context, req service.CreateGameRequest) (*game.State, error)
	GetGame(ctx context.Context, gameID string) (*game.State, error)
	Submit(ctx context.Context, gameID string, in engine.Intent) (*game.State, error)
	Restart(ctx context.Context, gameID string) (*game.State, error)
}

// Assets serves cached card images by file name.
type Assets interface {
	Image(fileName string) ([]byte, error)
}

// Leaderboard lists the best players.
type Leaderboard interface {
	GetTopPlayers(limit int) ([]storage.PlayerStats, error)
}

// Streamer upgrades a request into a live snapshot stream.
type Streamer interface {
	Serve(w http.ResponseWriter, r *http.Request, current *game.State) error
}

// GameHandler groups all HTTP handlers.
type GameHandler struct {
	games       Games
	catalog     catalog.Provider
	assets      Assets
	leaderboard Leaderboard
	stream      Streamer
	seats       *SeatSigner
}

// HandlerDeps wires a GameHandler. Assets, Leaderboard and Stream may be
// nil; their routes then answer 404 or 503.
type HandlerDeps struct {
	Games       Games
	Catalog     catalog.Provider
	Assets      Assets
	Leaderboard Leaderboard
	Stream      Streamer
	Seats       *SeatSigner
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(d HandlerDeps) *GameHandler {
	return &GameHandler{
		games:       d.Games,
		catalog:     d.Catalog,
		assets:      d.Assets,
		leaderboard: d.Leaderboard,
		stream:      d.Stream,
		seats:       d.Seats,
	}
}

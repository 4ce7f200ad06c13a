package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/ericogr/arcane-clash/internal/artwork"
	"github.com/ericogr/arcane-clash/internal/catalog"
	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/engine"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/session"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrCannotStartGame    = errors.New("cannot start game")
	ErrPlayerNameTooLong  = errors.New("player name too long")
	ErrSystemIntent       = errors.New("intent is reserved for the server")
	ErrInvalidGameOptions = errors.New("invalid game options")
)

// ArtResolver produces the art of one card. It must not fail; errors are
// expressed as a fallback result.
type ArtResolver interface {
	Resolve(ctx context.Context, card game.Card) artwork.Result
}

// StatsRecorder is notified once per finished game.
type StatsRecorder interface {
	UpdateStatsOnGameEnd(s *game.State) error
}

// Publisher receives every committed snapshot.
type Publisher interface {
	Publish(s *game.State)
}

// Options tunes game creation and pacing.
type Options struct {
	Flow        game.Flow
	HandSize    int
	CombatDelay time.Duration
	ArtTimeout  time.Duration
}

// Deps are the collaborators of GameService. Catalog and Sessions are
// required; the rest may be nil.
type Deps struct {
	Catalog  catalog.Provider
	Sessions session.Store
	Art      ArtResolver
	Stats    StatsRecorder
	Publish  Publisher
	Factory  *game.Factory
	Rand     *rand.Rand
	Now      func() time.Time

	// Schedule runs f after d. Defaults to time.AfterFunc.
	Schedule func(d time.Duration, f func())
	// Go starts background work. Defaults to a goroutine.
	Go func(f func())
}

// GameService owns live games: it creates them, serializes intents per
// game, persists every committed snapshot and drives transient phases.
type GameService struct {
	catalog  catalog.Provider
	sessions session.Store
	art      ArtResolver
	stats    StatsRecorder
	publish  Publisher
	factory  *game.Factory
	ctrl     *engine.Controller
	opts     Options
	schedule func(d time.Duration, f func())
	spawn    func(f func())

	locks gameLocks
}

// New wires a GameService.
func New(d Deps, opts Options) (*GameService, error) {
	if d.Catalog == nil {
		return nil, errors.New("catalog provider is required")
	}
	if d.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if d.Art == nil {
		d.Art = artwork.New(nil, nil, nil, opts.ArtTimeout)
	}
	if d.Factory == nil {
		d.Factory = game.NewFactory(nil)
	}
	if d.Schedule == nil {
		d.Schedule = func(delay time.Duration, f func()) { time.AfterFunc(delay, f) }
	}
	if d.Go == nil {
		d.Go = func(f func()) { go f() }
	}
	if opts.Flow == "" {
		opts.Flow = game.FlowSelect
	}
	if opts.HandSize <= 0 {
		opts.HandSize = game.DefaultHandSize
	}
	if opts.ArtTimeout <= 0 {
		opts.ArtTimeout = constants.DefaultGenerationTimeout
	}
	return &GameService{
		catalog:  d.Catalog,
		sessions: d.Sessions,
		art:      d.Art,
		stats:    d.Stats,
		publish:  d.Publish,
		factory:  d.Factory,
		ctrl:     engine.NewController(d.Rand, d.Now),
		opts:     opts,
		schedule: d.Schedule,
		spawn:    d.Go,
	}, nil
}

func (s *GameService) lock(gameID string) func() {
	return s.locks.lock(gameID)
}

// gameLocks hands out one mutex per game id. An entry lives only while some
// caller holds or waits for it, so idle and finished games leave nothing
// behind.
type gameLocks struct {
	mu      sync.Mutex
	entries map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func (l *gameLocks) lock(gameID string) func() {
	l.mu.Lock()
	if l.entries == nil {
		l.entries = make(map[string]*gameLock)
	}
	e, ok := l.entries[gameID]
	if !ok {
		e = &gameLock{}
		l.entries[gameID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, gameID)
		}
		l.mu.Unlock()
	}
}

func (l *gameLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// GetGame returns the latest committed snapshot.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*game.State, error) {
	st, err := s.sessions.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return st, nil
}

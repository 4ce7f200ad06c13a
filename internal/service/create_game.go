package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ericogr/arcane-clash/internal/catalog"
	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/engine"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/logging"
)

// CreateGameRequest names the two seats. An empty flow uses the configured
// default.
type CreateGameRequest struct {
	Player1Name string    `json:"player1_name"`
	Player2Name string    `json:"player2_name"`
	Flow        game.Flow `json:"flow"`
}

func (r CreateGameRequest) validate() error {
	for _, n := range []string{r.Player1Name, r.Player2Name} {
		if utf8.RuneCountInString(strings.TrimSpace(n)) > constants.MaxPlayerNameLength {
			return ErrPlayerNameTooLong
		}
	}
	if r.Flow != "" {
		if _, err := game.ParseFlow(string(r.Flow)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidGameOptions, err)
		}
	}
	return nil
}

func newSeatID() string { return "player-" + uuid.NewString()[:8] }

// CreateGame builds a fresh game from the catalog and starts art loading.
func (s *GameService) CreateGame(ctx context.Context, req CreateGameRequest) (*game.State, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	flow := req.Flow
	if flow == "" {
		flow = s.opts.Flow
	}
	setup := engine.Setup{
		GameID:     uuid.NewString(),
		Generation: 1,
		Flow:       flow,
		HandSize:   s.opts.HandSize,
		Seats: [2]engine.Seat{
			{ID: newSeatID(), Name: strings.TrimSpace(req.Player1Name)},
			{ID: newSeatID(), Name: strings.TrimSpace(req.Player2Name)},
		},
	}
	st, err := s.build(ctx, setup)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(st.ID)
	if err := s.sessions.Save(ctx, st); err != nil {
		unlock()
		return nil, err
	}
	s.announce(st)
	unlock()
	logging.Info("game created", logging.Fields{
		constants.LogFieldGameID: st.ID,
		"flow":                   st.Flow,
		"deck_size":              len(st.Deck),
	})
	s.committed(st)
	return st, nil
}

// Restart discards the game and deals a new one under the same id and seats
// with the generation incremented. Art still in flight for the old
// generation is dropped on arrival.
func (s *GameService) Restart(ctx context.Context, gameID string) (*game.State, error) {
	unlock := s.lock(gameID)
	cur, err := s.GetGame(ctx, gameID)
	if err != nil {
		unlock()
		return nil, err
	}
	setup := engine.Setup{
		GameID:     cur.ID,
		Generation: cur.Generation + 1,
		Flow:       cur.Flow,
		HandSize:   cur.HandSize,
		Seats: [2]engine.Seat{
			{ID: cur.Players[0].ID, Name: cur.Players[0].Name},
			{ID: cur.Players[1].ID, Name: cur.Players[1].Name},
		},
	}
	st, err := s.build(ctx, setup)
	if err == nil {
		err = s.sessions.Save(ctx, st)
	}
	if err == nil {
		s.announce(st)
	}
	unlock()
	if err != nil {
		return nil, err
	}
	logging.Info("game restarted", logging.Fields{
		constants.LogFieldGameID:     st.ID,
		constants.LogFieldGeneration: st.Generation,
	})
	s.committed(st)
	return st, nil
}

func (s *GameService) build(ctx context.Context, setup engine.Setup) (*game.State, error) {
	templates, err := catalog.FetchAll(ctx, s.catalog)
	if err != nil {
		logging.Error("catalog unavailable", err, logging.Fields{constants.LogFieldGameID: setup.GameID})
		return nil, fmt.Errorf("%w: %w", ErrCannotStartGame, err)
	}
	pool, err := s.factory.BuildPool(templates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCannotStartGame, err)
	}
	st, err := s.ctrl.NewGame(setup, pool)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCannotStartGame, err)
	}
	return st, nil
}

// announce publishes a freshly stored game. Callers hold the game's lock.
func (s *GameService) announce(st *game.State) {
	if s.publish != nil {
		s.publish.Publish(st)
	}
}

// committed starts one art request per card of a freshly stored game.
func (s *GameService) committed(st *game.State) {
	for _, card := range engine.PendingArt(st) {
		gameID, generation := st.ID, st.Generation
		s.spawn(func() { s.loadArt(gameID, generation, card) })
	}
	s.scheduleAuto(st)
}

func (s *GameService) loadArt(gameID string, generation int, card game.Card) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ArtTimeout)
	defer cancel()
	res := s.art.Resolve(ctx, card)
	s.dispatch(gameID, engine.Intent{
		Type:        engine.IntentArtResult,
		CardID:      card.ID,
		Generation:  generation,
		ImageRef:    res.ImageRef,
		Description: res.Description,
		Fallback:    res.Fallback,
	})
}

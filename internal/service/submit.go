package service

import (
	"context"
	"errors"
	"time"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/engine"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/logging"
)

// Submit applies a player intent. System intents are rejected with
// ErrSystemIntent; the service issues those itself.
func (s *GameService) Submit(ctx context.Context, gameID string, in engine.Intent) (*game.State, error) {
	if in.Type.IsSystem() {
		return nil, ErrSystemIntent
	}
	return s.apply(ctx, gameID, in)
}

// apply runs one intent under the game's lock and commits the result. The
// snapshot is published before the lock is released so subscribers see
// commits in order.
func (s *GameService) apply(ctx context.Context, gameID string, in engine.Intent) (*game.State, error) {
	unlock := s.lock(gameID)
	cur, err := s.GetGame(ctx, gameID)
	if err != nil {
		unlock()
		return nil, err
	}
	next, err := s.ctrl.Apply(cur, in)
	if err != nil {
		unlock()
		return nil, err
	}
	if err := s.sessions.Save(ctx, next); err != nil {
		unlock()
		return nil, err
	}
	if s.publish != nil {
		s.publish.Publish(next)
	}
	finished := next.IsOver() && !cur.IsOver()
	unlock()

	logging.Debug("intent applied", logging.Fields{
		constants.LogFieldGameID: gameID,
		constants.LogFieldIntent: in.Type,
		constants.LogFieldPhase:  next.Phase,
	})
	if finished {
		s.recordFinish(next)
	}
	// The follow-up takes the lock itself.
	s.scheduleAuto(next)
	return next, nil
}

func (s *GameService) recordFinish(st *game.State) {
	fields := logging.Fields{constants.LogFieldGameID: st.ID, "draw": st.Draw}
	if st.Winner != nil {
		fields["winner"] = *st.Winner
	}
	logging.Info("game over", fields)
	if s.stats == nil {
		return
	}
	if err := s.stats.UpdateStatsOnGameEnd(st); err != nil {
		logging.Error("failed to update player stats", err, logging.Fields{constants.LogFieldGameID: st.ID})
	}
}

// scheduleAuto dispatches the follow-up of a transient phase. Only the
// combat animation waits for the presentation delay.
func (s *GameService) scheduleAuto(st *game.State) {
	in, ok := engine.AutoIntent(st)
	if !ok {
		return
	}
	var delay time.Duration
	if st.Phase == game.PhaseCombatAnimation {
		delay = s.opts.CombatDelay
	}
	gameID := st.ID
	s.schedule(delay, func() { s.dispatch(gameID, in) })
}

// dispatch applies a system intent. Stale or superseded intents are
// expected after a restart or a concurrent move and are dropped.
func (s *GameService) dispatch(gameID string, in engine.Intent) {
	_, err := s.apply(context.Background(), gameID, in)
	if err == nil {
		return
	}
	fields := logging.Fields{
		constants.LogFieldGameID:     gameID,
		constants.LogFieldIntent:     in.Type,
		constants.LogFieldGeneration: in.Generation,
		constants.LogFieldCardID:     in.CardID,
	}
	switch {
	case errors.Is(err, engine.ErrStaleGeneration),
		errors.Is(err, engine.ErrCardNotFound),
		errors.Is(err, engine.ErrIntentNotAllowed),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, ErrGameNotFound):
		logging.Debug("system intent dropped: "+err.Error(), fields)
	default:
		logging.Error("system intent failed", err, fields)
	}
}

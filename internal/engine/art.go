package engine

import (
	"fmt"

	"github.com/ericogr/arcane-clash/internal/game"
)

// applyArt records one card's art and description. Responses for cards that
// are no longer part of the game are rejected with ErrCardNotFound.
func (c *Controller) applyArt(s *game.State, in Intent) error {
	found := s.UpdateCard(in.CardID, func(card *game.Card) {
		card.ApplyArt(in.ImageRef, in.Description, in.Fallback)
	})
	if !found {
		return fmt.Errorf("%w: art for %q", ErrCardNotFound, in.CardID)
	}
	if s.Phase == game.PhaseLoadingArt && allArtLoaded(s) {
		c.finishLoading(s)
	}
	return nil
}

func allArtLoaded(s *game.State) bool {
	for _, lc := range s.AllCards() {
		if !lc.Card.ArtLoaded {
			return false
		}
	}
	return true
}

// PendingArt lists the cards still waiting for art.
func PendingArt(s *game.State) []game.Card {
	var out []game.Card
	for _, lc := range s.AllCards() {
		if !lc.Card.ArtLoaded {
			out = append(out, lc.Card)
		}
	}
	return out
}

// finishLoading leaves loading_art for the first actionable phase.
func (c *Controller) finishLoading(s *game.State) {
	c.log(s, "All cards are ready.")
	if s.Flow == game.FlowAction {
		s.Phase = game.PhaseMulligan
		c.logf(s, "Mulligan: each player may exchange exactly %d cards once, or keep their hand.", game.MulliganSize)
		return
	}
	c.beginTurn(s)
}

package engine

import (
	"fmt"

	"github.com/ericogr/arcane-clash/internal/game"
)

// mulligan returns the chosen cards to the deck, reshuffles and deals the
// same number back. Exactly min(MulliganSize, hand size) cards are swapped.
func (c *Controller) mulligan(s *game.State, in Intent) error {
	if s.Phase != game.PhaseMulligan {
		return notAllowed(in, s.Phase)
	}
	idx := in.PlayerIndex
	if !game.CanMulligan(s, idx) {
		return fmt.Errorf("%w: player %d already decided", ErrIntentNotAllowed, idx)
	}
	p := &s.Players[idx]
	want := minInt(game.MulliganSize, len(p.Hand))
	if len(in.CardIDs) != want {
		return fmt.Errorf("%w: mulligan needs exactly %d cards, got %d", ErrIntentNotAllowed, want, len(in.CardIDs))
	}
	seen := make(map[string]bool, len(in.CardIDs))
	for _, id := range in.CardIDs {
		if seen[id] {
			return fmt.Errorf("%w: card %q listed twice", ErrIntentNotAllowed, id)
		}
		seen[id] = true
		if game.IndexOfCard(p.Hand, id) < 0 {
			return fmt.Errorf("%w: %q not in hand of player %d", ErrCardNotFound, id, idx)
		}
	}

	deck := s.Deck
	for _, id := range in.CardIDs {
		card, _ := takeFromHand(s, idx, id)
		card.Owner = ""
		deck = append(deck, card)
	}
	deck = c.shuffle(deck)
	drawn, rest := game.Deal(deck, want)
	s.Deck = rest
	setOwner(drawn, p.ID)
	p.Hand = append(p.Hand, drawn...)
	p.HasMulliganed = true
	p.MulliganDecided = true
	c.logf(s, "%s mulligans %d cards.", playerLabel(*p, idx), want)
	c.maybeEndMulligan(s)
	return nil
}

func (c *Controller) keepHand(s *game.State, in Intent) error {
	if s.Phase != game.PhaseMulligan {
		return notAllowed(in, s.Phase)
	}
	idx := in.PlayerIndex
	p := &s.Players[idx]
	if p.MulliganDecided {
		return fmt.Errorf("%w: player %d already decided", ErrIntentNotAllowed, idx)
	}
	p.MulliganDecided = true
	c.logf(s, "%s keeps their hand.", playerLabel(*p, idx))
	c.maybeEndMulligan(s)
	return nil
}

func (c *Controller) maybeEndMulligan(s *game.State) {
	if s.Players[0].MulliganDecided && s.Players[1].MulliganDecided {
		c.beginTurn(s)
	}
}

func (c *Controller) summon(s *game.State, in Intent) error {
	if err := requireTurn(s, in, game.PhasePlayerAction); err != nil {
		return err
	}
	idx := in.PlayerIndex
	if s.Arena(idx) != nil {
		return fmt.Errorf("%w: arena already occupied", ErrIntentNotAllowed)
	}
	card, err := peekHand(s, idx, in.CardID)
	if err != nil {
		return err
	}
	if !game.Eligible(card) {
		return fmt.Errorf("%w: %s", ErrIneligibleCard, card.Title)
	}
	card, _ = takeFromHand(s, idx, in.CardID)
	s.SetArena(idx, &card)
	c.logf(s, "%s summons %s.", playerLabel(s.Players[idx], idx), card.Title)
	return nil
}

func (c *Controller) beginSwap(s *game.State, in Intent) error {
	if err := requireTurn(s, in, game.PhasePlayerAction); err != nil {
		return err
	}
	idx := in.PlayerIndex
	if s.Arena(idx) == nil {
		return fmt.Errorf("%w: no monster to swap", ErrIntentNotAllowed)
	}
	if len(game.EligibleMonsters(s.Players[idx])) == 0 {
		return fmt.Errorf("%w: no monster in hand to swap in", ErrIntentNotAllowed)
	}
	s.Phase = game.PhaseSelectingSwapMonster
	return nil
}

func (c *Controller) completeSwap(s *game.State, in Intent) error {
	if err := requireTurn(s, in, game.PhaseSelectingSwapMonster); err != nil {
		return err
	}
	idx := in.PlayerIndex
	card, err := peekHand(s, idx, in.CardID)
	if err != nil {
		return err
	}
	if !game.Eligible(card) {
		return fmt.Errorf("%w: %s", ErrIneligibleCard, card.Title)
	}
	card, _ = takeFromHand(s, idx, in.CardID)
	out := *s.Arena(idx)
	s.Players[idx].Hand = append(s.Players[idx].Hand, out)
	s.SetArena(idx, &card)
	s.Phase = game.PhasePlayerAction
	c.logf(s, "%s swaps %s for %s.", playerLabel(s.Players[idx], idx), out.Title, card.Title)
	return nil
}

func (c *Controller) cancelSwap(s *game.State, in Intent) error {
	if err := requireTurn(s, in, game.PhaseSelectingSwapMonster); err != nil {
		return err
	}
	s.Phase = game.PhasePlayerAction
	return nil
}

func (c *Controller) attack(s *game.State, in Intent) error {
	if err := requireTurn(s, in, game.PhasePlayerAction); err != nil {
		return err
	}
	if !game.CanAttack(s, in.PlayerIndex) {
		return fmt.Errorf("%w: both arena slots must be occupied", ErrIntentNotAllowed)
	}
	s.Phase = game.PhaseCombat
	c.logf(s, "%s attacks!", playerLabel(s.Players[in.PlayerIndex], in.PlayerIndex))
	return nil
}

func (c *Controller) endTurn(s *game.State, in Intent) error {
	if err := requireTurn(s, in, game.PhasePlayerAction); err != nil {
		return err
	}
	s.Phase = game.PhaseTurnResolution
	c.logf(s, "%s ends their turn.", playerLabel(s.Players[in.PlayerIndex], in.PlayerIndex))
	return nil
}

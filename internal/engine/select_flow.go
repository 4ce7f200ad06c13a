package engine

import (
	"fmt"
	"strings"

	"github.com/ericogr/arcane-clash/internal/game"
)

// selectCard handles both the select-flow champion choice and the
// replacement choice while swapping in the action flow.
func (c *Controller) selectCard(s *game.State, in Intent) error {
	if s.Phase == game.PhaseSelectingSwapMonster {
		return c.completeSwap(s, in)
	}
	if err := requireTurn(s, in, game.PhasePlayer1Select, game.PhasePlayer2Select); err != nil {
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
	s.SetArena(idx, &card)
	c.logf(s, "%s selects %s.", playerLabel(s.Players[idx], idx), card.Title)

	if idx == s.CurrentPlayerIndex {
		opp := game.Opponent(idx)
		if !game.HasFighter(s, opp) {
			c.endByExhaustion(s, opp)
			return nil
		}
		s.Phase = game.SelectPhaseFor(opp)
		return nil
	}
	s.Phase = game.PhaseCombatAnimation
	return nil
}

// resolveCombat runs the resolver over both arena cards. On a precondition
// failure the error is returned and the caller keeps the previous snapshot.
func (c *Controller) resolveCombat(s *game.State) error {
	if s.Phase != game.PhaseCombatAnimation && s.Phase != game.PhaseCombat {
		return notAllowed(Intent{Type: IntentResolveCombat}, s.Phase)
	}
	a1, a2 := s.Arena(0), s.Arena(1)
	if a1 == nil || a2 == nil {
		return fmt.Errorf("%w: both arena slots must be filled", ErrIntentNotAllowed)
	}
	res, err := Resolve(s.Players[0], *a1, s.Players[1], *a2)
	if err != nil {
		return err
	}
	s.Players[0], s.Players[1] = res.Player1, res.Player2
	s.SelectedCardP1, s.SelectedCardP2 = nil, nil
	s.DiscardPile = append(s.DiscardPile, res.Discarded...)
	s.LastCombatSummary = res.Summary
	for _, line := range res.Log {
		c.log(s, line)
	}

	if res.Outcome.Terminal() {
		c.finish(s, res.Outcome)
		return nil
	}
	if s.Phase == game.PhaseCombat {
		s.Phase = game.PhaseTurnResolution
		return nil
	}
	c.advanceTurn(s)
	return nil
}

// playSpell casts a spell from hand. In the select flow the spell is a
// no-combat action and goes straight to the discard pile; in the action
// flow it waits in the pending slot until resolve_spell.
func (c *Controller) playSpell(s *game.State, in Intent) error {
	if err := requireTurn(s, in, game.PhasePlayer1Select, game.PhasePlayer2Select, game.PhasePlayerAction); err != nil {
		return err
	}
	idx := in.PlayerIndex
	p := &s.Players[idx]
	card, err := peekHand(s, idx, in.CardID)
	if err != nil {
		return err
	}
	if card.CardType != game.CardTypeSpell {
		return fmt.Errorf("%w: %s is not a spell", ErrIneligibleCard, card.Title)
	}
	if p.SpellsPlayedThisTurn >= MaxSpellsPerTurn {
		return ErrSpellLimit
	}
	card, _ = takeFromHand(s, idx, in.CardID)
	p.SpellsPlayedThisTurn++
	c.logf(s, "%s casts %s.", playerLabel(*p, idx), card.Title)

	if s.Phase == game.PhasePlayerAction {
		s.PendingSpell = &card
		s.Phase = game.PhaseSpellEffect
		return nil
	}
	c.discard(s, card)
	return nil
}

// resolveSpell applies the pending spell to the caster's arena monster.
func (c *Controller) resolveSpell(s *game.State) error {
	if s.Phase != game.PhaseSpellEffect || s.PendingSpell == nil {
		return notAllowed(Intent{Type: IntentResolveSpell}, s.Phase)
	}
	spell := *s.PendingSpell
	s.PendingSpell = nil
	idx := s.CurrentPlayerIndex
	target := s.Arena(idx)

	switch {
	case spell.Effect == nil:
		c.logf(s, "%s crackles with arcane power.", spell.Title)
	case target == nil:
		c.logf(s, "%s fizzles: no monster in the arena.", spell.Title)
	default:
		c.applySpellEffect(s, spell, target)
	}
	c.discard(s, spell)
	s.Phase = game.PhasePlayerAction
	return nil
}

func (c *Controller) applySpellEffect(s *game.State, spell game.Card, target *game.Card) {
	e := spell.Effect
	switch strings.ToLower(e.Type) {
	case game.EffectHeal:
		healed := minInt(target.MaxHP, target.HP+maxInt(0, e.Value)) - target.HP
		target.HP += healed
		c.logf(s, "%s heals %s for %d (hp %d/%d).", spell.Title, target.Title, healed, target.HP, target.MaxHP)
	case game.EffectRegenerate:
		duration := e.Duration
		if duration <= 0 {
			duration = 1
		}
		target.StatusEffects = append(target.StatusEffects, game.StatusEffect{
			ID:       spell.ID + "-" + game.EffectRegenerate,
			Type:     game.EffectRegenerate,
			Duration: duration,
			Value:    maxInt(0, e.Value),
		})
		c.logf(s, "%s gains regenerate %d for %d turns.", target.Title, e.Value, duration)
	default:
		c.logf(s, "%s shimmers around %s.", spell.Title, target.Title)
	}
}

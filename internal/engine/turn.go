package engine

import (
	"github.com/ericogr/arcane-clash/internal/game"
)

// beginTurn enters the first phase of the current player's turn. A player
// with nothing able to fight ends the game by exhaustion.
func (c *Controller) beginTurn(s *game.State) {
	cur := s.CurrentPlayerIndex
	if !game.HasFighter(s, cur) {
		c.endByExhaustion(s, cur)
		return
	}
	s.Players[cur].SpellsPlayedThisTurn = 0
	if s.Flow == game.FlowAction {
		s.Phase = game.PhasePlayerAction
	} else {
		s.Phase = game.SelectPhaseFor(cur)
	}
	c.logf(s, "Turn %d: %s to play.", s.Turn, playerLabel(s.Players[cur], cur))
}

// endByExhaustion ends the game when idx cannot field a monster. The player
// with more hp wins; equal hp is a draw.
func (c *Controller) endByExhaustion(s *game.State, idx int) {
	c.logf(s, "%s has no monster able to fight.", playerLabel(s.Players[idx], idx))
	hp0, hp1 := s.Players[0].HP, s.Players[1].HP
	switch {
	case hp0 > hp1:
		c.finish(s, Outcome{Kind: OutcomeWinner, Winner: 0})
		c.logf(s, "%s wins with more hp remaining.", playerLabel(s.Players[0], 0))
	case hp1 > hp0:
		c.finish(s, Outcome{Kind: OutcomeWinner, Winner: 1})
		c.logf(s, "%s wins with more hp remaining.", playerLabel(s.Players[1], 1))
	default:
		c.finish(s, Outcome{Kind: OutcomeDraw, Winner: -1})
		c.log(s, "Equal hp remaining. The game is a draw.")
	}
}

func (c *Controller) advanceIntent(s *game.State) error {
	if s.Phase != game.PhaseTurnResolution {
		return notAllowed(Intent{Type: IntentAdvanceTurn}, s.Phase)
	}
	c.advanceTurn(s)
	return nil
}

// advanceTurn closes the current player's turn: status effects tick, the
// turn passes, both hands are refilled (the player who acted first) and the
// next turn begins.
func (c *Controller) advanceTurn(s *game.State) {
	acting := s.CurrentPlayerIndex
	c.tickStatusEffects(s, acting)
	s.Players[acting].TurnCount++
	s.Players[acting].SpellsPlayedThisTurn = 0

	next := game.Opponent(acting)
	s.CurrentPlayerIndex = next
	c.refill(s, acting)
	c.refill(s, next)
	s.Turn++
	c.beginTurn(s)
}

// refill tops the hand of idx up to the hand size. An empty deck is not an
// error; the hand simply stays short.
func (c *Controller) refill(s *game.State, idx int) {
	need := s.HandSize - len(s.Players[idx].Hand)
	if need <= 0 {
		return
	}
	drawn, rest := game.Deal(s.Deck, need)
	s.Deck = rest
	setOwner(drawn, s.Players[idx].ID)
	s.Players[idx].Hand = append(s.Players[idx].Hand, drawn...)
	c.logf(s, "%s drew %d cards.", playerLabel(s.Players[idx], idx), len(drawn))
}

// tickStatusEffects applies and decrements the effects on every card held by
// idx. Effects reaching zero are removed.
func (c *Controller) tickStatusEffects(s *game.State, idx int) {
	tick := func(card *game.Card) {
		if len(card.StatusEffects) == 0 {
			return
		}
		kept := card.StatusEffects[:0]
		for _, e := range card.StatusEffects {
			if e.Type == game.EffectRegenerate && card.HP > 0 {
				healed := minInt(card.MaxHP, card.HP+e.Value) - card.HP
				if healed > 0 {
					card.HP += healed
					c.logf(s, "%s regenerates %d hp (hp %d/%d).", card.Title, healed, card.HP, card.MaxHP)
				}
			}
			e.Duration--
			if e.Duration > 0 {
				kept = append(kept, e)
			} else {
				c.logf(s, "%s's %s effect wears off.", card.Title, e.Type)
			}
		}
		if len(kept) == 0 {
			kept = nil
		}
		card.StatusEffects = kept
	}
	for i := range s.Players[idx].Hand {
		tick(&s.Players[idx].Hand[i])
	}
	if a := s.Arena(idx); a != nil {
		tick(a)
	}
}

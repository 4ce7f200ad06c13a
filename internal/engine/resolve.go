package engine

import (
	"github.com/ericogr/arcane-clash/internal/game"
)

// OutcomeKind classifies the result of a combat resolution.
type OutcomeKind string

const (
	OutcomeContinue OutcomeKind = "continue"
	OutcomeWinner   OutcomeKind = "winner"
	OutcomeDraw     OutcomeKind = "draw"
)

// Outcome is the terminal classification after combat. Winner is the seat
// index and only meaningful when Kind is OutcomeWinner.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Winner int         `json:"winner"`
}

// Terminal reports whether the game ends with this outcome.
func (o Outcome) Terminal() bool { return o.Kind != OutcomeContinue }

// Resolution is everything a combat produced. The inputs are left untouched.
type Resolution struct {
	Player1   game.Player
	Player2   game.Player
	Discarded []game.Card
	Log       []string
	Summary   string
	Outcome   Outcome
}

// strike is the effect of one attack on one defender.
type strike struct {
	attack       int
	absorbed     int
	hpDamage     int
	defeated     bool
	playerDamage int
}

// Resolve runs one simultaneous exchange between card1 (held by player1) and
// card2 (held by player2). Both attacks are computed against the pre-combat
// snapshot of the defender, so neither result depends on the other.
func Resolve(player1 game.Player, card1 game.Card, player2 game.Player, card2 game.Card) (Resolution, error) {
	if err := checkCombatant(player1, card1); err != nil {
		return Resolution{}, err
	}
	if err := checkCombatant(player2, card2); err != nil {
		return Resolution{}, err
	}
	if card1.ID == card2.ID {
		return Resolution{}, &game.CombatPreconditionError{CardID: card1.ID, Reason: "card cannot fight itself"}
	}

	rc := newRoundContext()
	p1, p2 := player1.Clone(), player2.Clone()
	c1, c2 := card1.Clone(), card2.Clone()
	name1, name2 := playerLabel(p1, 0), playerLabel(p2, 1)

	// Snapshots first, then apply.
	hit2 := computeStrike(card1, card2)
	hit1 := computeStrike(card2, card1)
	applyStrike(&c2, hit2)
	applyStrike(&c1, hit1)

	logStrike(rc, name1, card1, card2, c2, hit2)
	logStrike(rc, name2, card2, card1, c1, hit1)

	if hit2.defeated {
		rc.addf("%s's %s is defeated!", name2, c2.Title)
		p2.HP = maxInt(0, p2.HP-hit2.playerDamage)
		rc.addf("%s takes %d damage (%d - %d defense), hp %d/%d.",
			name2, hit2.playerDamage, hit2.attack, card2.Defense, p2.HP, p2.MaxHP)
	}
	if hit1.defeated {
		rc.addf("%s's %s is defeated!", name1, c1.Title)
		p1.HP = maxInt(0, p1.HP-hit1.playerDamage)
		rc.addf("%s takes %d damage (%d - %d defense), hp %d/%d.",
			name1, hit1.playerDamage, hit1.attack, card1.Defense, p1.HP, p1.MaxHP)
	}

	// Spent cards are consumed regardless of the result.
	p1.Hand, _, _ = game.RemoveCard(p1.Hand, c1.ID)
	p2.Hand, _, _ = game.RemoveCard(p2.Hand, c2.ID)
	c1.Owner, c2.Owner = "", ""
	rc.addf("%s and %s go to the discard pile.", c1.Title, c2.Title)

	out := classify(p1, p2)
	switch out.Kind {
	case OutcomeDraw:
		rc.add("Both players fall. The game is a draw.")
	case OutcomeWinner:
		if out.Winner == 0 {
			rc.addf("%s wins the game!", name1)
		} else {
			rc.addf("%s wins the game!", name2)
		}
	}

	return Resolution{
		Player1:   p1,
		Player2:   p2,
		Discarded: []game.Card{c1, c2},
		Log:       rc.lines(),
		Summary:   rc.joinSummary(),
		Outcome:   out,
	}, nil
}

func checkCombatant(p game.Player, c game.Card) error {
	switch c.CardType {
	case game.CardTypeMonster:
	case game.CardTypeSpell:
		return &game.CombatPreconditionError{CardID: c.ID, Reason: "spell cards cannot fight"}
	default:
		return &game.CombatPreconditionError{CardID: c.ID, Reason: "unknown card type " + string(c.CardType)}
	}
	if c.Owner != p.ID {
		return &game.CombatPreconditionError{CardID: c.ID, Reason: "card is not held by player " + p.ID}
	}
	if c.HP <= 0 {
		return &game.CombatPreconditionError{CardID: c.ID, Reason: "card is already defeated"}
	}
	return nil
}

// computeStrike measures attacker's hit on defender using defender's current
// shield as the snapshot. Magic shield does not absorb combat damage.
func computeStrike(attacker, defender game.Card) strike {
	a := maxInt(0, attacker.Attack())
	snapshot := maxInt(0, defender.Shield)
	s := strike{
		attack:   a,
		absorbed: minInt(a, snapshot),
		hpDamage: maxInt(0, a-snapshot),
	}
	s.defeated = defender.HP-s.hpDamage <= 0
	if s.defeated {
		s.playerDamage = maxInt(0, a-defender.Defense)
	}
	return s
}

// applyStrike drains the shield first, then hp.
func applyStrike(c *game.Card, s strike) {
	c.Shield = maxInt(0, c.Shield-s.absorbed)
	c.HP = maxInt(0, c.HP-s.hpDamage)
}

func logStrike(rc *roundContext, attackerName string, attacker, before, after game.Card, s strike) {
	switch {
	case s.attack == 0:
		rc.addf("%s's %s has no attack and deals no damage to %s.", attackerName, attacker.Title, before.Title)
	case s.absorbed > 0:
		rc.addf("%s's %s attacks %s for %d: %d absorbed by shield, %d damage (hp %d/%d).",
			attackerName, attacker.Title, before.Title, s.attack, s.absorbed, s.hpDamage, after.HP, after.MaxHP)
	default:
		rc.addf("%s's %s attacks %s for %d damage (hp %d/%d).",
			attackerName, attacker.Title, before.Title, s.hpDamage, after.HP, after.MaxHP)
	}
}

// classify derives the game outcome from the players' hp.
func classify(p1, p2 game.Player) Outcome {
	down1, down2 := p1.HP <= 0, p2.HP <= 0
	switch {
	case down1 && down2:
		return Outcome{Kind: OutcomeDraw, Winner: -1}
	case down2:
		return Outcome{Kind: OutcomeWinner, Winner: 0}
	case down1:
		return Outcome{Kind: OutcomeWinner, Winner: 1}
	}
	return Outcome{Kind: OutcomeContinue, Winner: -1}
}

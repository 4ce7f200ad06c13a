package game

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/google/uuid"

	"github.com/ericogr/arcane-clash/internal/keys"
)

// MaxRolledStat is the upper bound of a rolled melee or magic value.
const MaxRolledStat = 10

// Roller is the subset of dice.Roller the factory needs.
type Roller interface {
	Roll(size int) (int, error)
}

// Factory turns catalog templates into live card instances.
type Factory struct {
	roller Roller
	newID  func() string
}

// NewFactory returns a factory using roller for rolled stats. A nil roller
// falls back to the toolkit's default roller.
func NewFactory(roller Roller) *Factory {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	return &Factory{roller: roller, newID: func() string { return uuid.NewString()[:8] }}
}

// WithIDSource overrides the random id suffix; tests use it for stable ids.
func (f *Factory) WithIDSource(next func() string) *Factory {
	f.newID = next
	return f
}

// NewCard builds a full-health card from t. index disambiguates copies of the
// same template inside one game.
func (f *Factory) NewCard(t Template, index int) (Card, error) {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return Card{}, &CatalogError{Template: t.ID, Reason: "missing title"}
	}
	switch t.CardType {
	case CardTypeMonster, CardTypeSpell:
	default:
		return Card{}, &CatalogError{Template: title, Reason: fmt.Sprintf("unknown card type %q", t.CardType)}
	}

	c := Card{
		ID:          fmt.Sprintf("%s-%d-%s", keys.CardKeyFromTitle(title), index, f.newID()),
		Title:       title,
		CardType:    t.CardType,
		Description: strings.TrimSpace(t.Description),
	}

	switch t.CardType {
	case CardTypeMonster:
		melee, magic := nonNegative(t.Melee), nonNegative(t.Magic)
		if t.RollStats {
			var err error
			melee, magic, err = f.rollOffense(melee, magic)
			if err != nil {
				return Card{}, &CatalogError{Template: title, Reason: "stat roll failed: " + err.Error()}
			}
		}
		if melee == 0 && magic == 0 {
			melee = 1
		}
		c.Melee = melee
		c.Magic = magic
		c.Defense = nonNegative(t.Defense)
		c.MaxHP = nonNegative(t.HP)
		if c.MaxHP == 0 {
			c.MaxHP = 1
		}
		c.HP = c.MaxHP
		c.MaxShield = nonNegative(t.Shield)
		c.Shield = c.MaxShield
		c.MaxMagicShield = nonNegative(t.MagicShield)
		c.MagicShield = c.MaxMagicShield
	case CardTypeSpell:
		if t.Effect != nil {
			e := *t.Effect
			c.Effect = &e
		}
	}
	return c, nil
}

// rollOffense flips a coin to pick melee or magic and rolls that stat from
// 1..MaxRolledStat.
func (f *Factory) rollOffense(melee, magic int) (int, int, error) {
	coin, err := f.roller.Roll(2)
	if err != nil {
		return 0, 0, err
	}
	v, err := f.roller.Roll(MaxRolledStat)
	if err != nil {
		return 0, 0, err
	}
	if v < 1 {
		v = 1
	}
	if coin == 1 {
		return v, magic, nil
	}
	return melee, v, nil
}

// BuildPool creates Copies instances (at least one) per template in catalog
// order.
func (f *Factory) BuildPool(templates []Template) ([]Card, error) {
	if len(templates) == 0 {
		return nil, &CatalogError{Reason: "no card templates available"}
	}
	pool := make([]Card, 0, len(templates))
	index := 0
	for _, t := range templates {
		n := t.Copies
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			c, err := f.NewCard(t, index)
			if err != nil {
				return nil, err
			}
			pool = append(pool, c)
			index++
		}
	}
	return pool, nil
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

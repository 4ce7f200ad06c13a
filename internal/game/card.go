package game

import "strings"

// CardType is the closed set of card kinds. Only monsters take part in
// combat.
type CardType string

const (
	CardTypeMonster CardType = "Monster"
	CardTypeSpell   CardType = "Spell"
)

// ParseCardType accepts the canonical names case-insensitively.
func ParseCardType(s string) (CardType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monster":
		return CardTypeMonster, true
	case "spell":
		return CardTypeSpell, true
	}
	return "", false
}

// Status effect types understood by the turn controller.
const (
	EffectHeal       = "heal"
	EffectRegenerate = "regenerate"
)

// StatusEffect is attached to a monster by a spell and ticks down once per
// owner turn.
type StatusEffect struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Value    int    `json:"value"`
}

// SpellEffect describes what a spell does when it resolves. Types other
// than heal and regenerate are flavor only.
type SpellEffect struct {
	Type     string `json:"type" yaml:"type"`
	Value    int    `json:"value" yaml:"value"`
	Duration int    `json:"duration" yaml:"duration"`
}

// Template is the immutable catalog definition of a card.
type Template struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	CardType    CardType     `json:"card_type" yaml:"card_type"`
	Melee       int          `json:"melee" yaml:"melee"`
	Magic       int          `json:"magic" yaml:"magic"`
	Defense     int          `json:"defense" yaml:"defense"`
	HP          int          `json:"hp" yaml:"hp"`
	Shield      int          `json:"shield" yaml:"shield"`
	MagicShield int          `json:"magic_shield" yaml:"magic_shield"`
	RollStats   bool         `json:"roll_stats" yaml:"roll_stats"`
	Copies      int          `json:"copies,omitempty" yaml:"copies,omitempty"`
	Description string       `json:"description" yaml:"description"`
	Effect      *SpellEffect `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// Card is a live, per-game card instance.
type Card struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	CardType CardType `json:"card_type"`
	// Owner is the id of the player holding the card in hand or arena.
	// Cards in the deck or the discard pile have no owner.
	Owner string `json:"owner,omitempty"`

	Melee          int            `json:"melee"`
	Magic          int            `json:"magic"`
	Defense        int            `json:"defense"`
	HP             int            `json:"hp"`
	MaxHP          int            `json:"max_hp"`
	Shield         int            `json:"shield"`
	MaxShield      int            `json:"max_shield"`
	MagicShield    int            `json:"magic_shield"`
	MaxMagicShield int            `json:"max_magic_shield"`
	StatusEffects  []StatusEffect `json:"status_effects,omitempty"`

	Effect *SpellEffect `json:"effect,omitempty"`

	// Presentation fields, owned by the art and description generators.
	ImageRef    string `json:"image_ref"`
	Description string `json:"description"`
	ArtLoaded   bool   `json:"art_loaded"`
	ArtFallback bool   `json:"art_fallback"`
}

// IsMonster reports whether the card can take part in combat.
func (c Card) IsMonster() bool { return c.CardType == CardTypeMonster }

// Attack is the card's offensive power; melee and magic both count.
func (c Card) Attack() int { return c.Melee + c.Magic }

// Clone returns a deep copy.
func (c Card) Clone() Card {
	out := c
	if c.StatusEffects != nil {
		out.StatusEffects = append([]StatusEffect(nil), c.StatusEffects...)
	}
	if c.Effect != nil {
		e := *c.Effect
		out.Effect = &e
	}
	return out
}

func cloneCards(in []Card) []Card {
	if in == nil {
		return nil
	}
	out := make([]Card, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneCardPtr(c *Card) *Card {
	if c == nil {
		return nil
	}
	cc := c.Clone()
	return &cc
}

// IndexOfCard returns the position of id in cards or -1.
func IndexOfCard(cards []Card, id string) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveCard returns cards without id and the removed card.
func RemoveCard(cards []Card, id string) ([]Card, Card, bool) {
	i := IndexOfCard(cards, id)
	if i < 0 {
		return cards, Card{}, false
	}
	removed := cards[i]
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	out = append(out, cards[i+1:]...)
	return out, removed, true
}

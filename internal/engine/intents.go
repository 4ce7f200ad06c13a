package engine

import (
	"errors"

	"github.com/ericogr/arcane-clash/internal/game"
)

// IntentType names an action submitted to the controller.
type IntentType string

const (
	IntentSelectCard    IntentType = "select_card"
	IntentResolveCombat IntentType = "resolve_combat"
	IntentArtResult     IntentType = "art_result"
	IntentMulligan      IntentType = "mulligan"
	IntentKeepHand      IntentType = "keep_hand"
	IntentSummonMonster IntentType = "summon_monster"
	IntentBeginSwap     IntentType = "begin_swap"
	IntentCancelSwap    IntentType = "cancel_swap"
	IntentPlaySpell     IntentType = "play_spell"
	IntentResolveSpell  IntentType = "resolve_spell"
	IntentAttack        IntentType = "attack"
	IntentEndTurn       IntentType = "end_turn"
	IntentAdvanceTurn   IntentType = "advance_turn"
)

// Intent is a single request to move the game forward. Player intents carry
// the acting seat; system intents (combat, spell and turn resolution, art
// results) are produced by the service.
type Intent struct {
	Type        IntentType `json:"type"`
	PlayerIndex int        `json:"player_index"`
	CardID      string     `json:"card_id,omitempty"`
	CardIDs     []string   `json:"card_ids,omitempty"`
	// Generation, when non-zero, must match the game's generation. Art
	// results always carry one.
	Generation  int    `json:"generation,omitempty"`
	ImageRef    string `json:"image_ref,omitempty"`
	Description string `json:"description,omitempty"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// IsSystem reports whether the intent may only be issued by the service.
func (t IntentType) IsSystem() bool {
	switch t {
	case IntentResolveCombat, IntentArtResult, IntentResolveSpell, IntentAdvanceTurn:
		return true
	}
	return false
}

// Known reports whether t is a recognized intent.
func (t IntentType) Known() bool {
	switch t {
	case IntentSelectCard, IntentResolveCombat, IntentArtResult, IntentMulligan,
		IntentKeepHand, IntentSummonMonster, IntentBeginSwap, IntentCancelSwap,
		IntentPlaySpell, IntentResolveSpell, IntentAttack, IntentEndTurn, IntentAdvanceTurn:
		return true
	}
	return false
}

var (
	ErrNoGame           = errors.New("no game state")
	ErrUnknownIntent    = errors.New("unknown intent")
	ErrIntentNotAllowed = errors.New("intent not allowed in current phase")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidPlayer    = errors.New("invalid player index")
	ErrGameOver         = errors.New("game is over")
	ErrStaleGeneration  = errors.New("stale game generation")
	ErrCardNotFound     = errors.New("card not found")
	ErrIneligibleCard   = errors.New("card is not eligible")
	ErrSpellLimit       = errors.New("spell limit reached for this turn")
)

// MaxSpellsPerTurn bounds play_spell per player turn.
const MaxSpellsPerTurn = 1

// AutoIntent returns the system intent the service should dispatch for a
// transient phase. The second result is false when the game waits on a
// player.
func AutoIntent(s *game.State) (Intent, bool) {
	if s == nil {
		return Intent{}, false
	}
	in := Intent{PlayerIndex: s.CurrentPlayerIndex, Generation: s.Generation}
	switch s.Phase {
	case game.PhaseCombatAnimation, game.PhaseCombat:
		in.Type = IntentResolveCombat
	case game.PhaseSpellEffect:
		in.Type = IntentResolveSpell
	case game.PhaseTurnResolution:
		in.Type = IntentAdvanceTurn
	default:
		return Intent{}, false
	}
	return in, true
}

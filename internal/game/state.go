package game

import (
	"fmt"
	"time"
)

const (
	// PlayerMaxHP is fixed for every player.
	PlayerMaxHP = 100
	// DefaultHandSize is the target hand size for the initial deal and refills.
	DefaultHandSize = 5
	// MulliganSize is the number of cards exchanged by a mulligan.
	MulliganSize = 2
)

// Phase is the closed set of controller states.
type Phase string

const (
	PhaseInitial              Phase = "initial"
	PhaseLoadingArt           Phase = "loading_art"
	PhaseMulligan             Phase = "mulligan_phase"
	PhasePlayer1Select        Phase = "player1_select_card"
	PhasePlayer2Select        Phase = "player2_select_card"
	PhaseCombatAnimation      Phase = "combat_animation"
	PhasePlayerAction         Phase = "player_action_phase"
	PhaseSelectingSwapMonster Phase = "selecting_swap_monster_phase"
	PhaseSpellEffect          Phase = "spell_effect_phase"
	PhaseCombat               Phase = "combat_phase"
	PhaseTurnResolution       Phase = "turn_resolution_phase"
	PhaseGameOver             Phase = "game_over"
)

// Flow picks between the select-only flow and the discrete action flow.
type Flow string

const (
	FlowSelect Flow = "select"
	FlowAction Flow = "action"
)

// ParseFlow maps an empty value to the select flow.
func ParseFlow(s string) (Flow, error) {
	switch Flow(s) {
	case "", FlowSelect:
		return FlowSelect, nil
	case FlowAction:
		return FlowAction, nil
	}
	return "", fmt.Errorf("unknown game flow %q", s)
}

// Player holds one seat. The shared deck and discard pile belong to State.
type Player struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	HP                   int    `json:"hp"`
	MaxHP                int    `json:"max_hp"`
	Hand                 []Card `json:"hand"`
	TurnCount            int    `json:"turn_count"`
	HasMulliganed        bool   `json:"has_mulliganed"`
	MulliganDecided      bool   `json:"mulligan_decided"`
	SpellsPlayedThisTurn int    `json:"spells_played_this_turn"`
}

// Clone returns a deep copy.
func (p Player) Clone() Player {
	out := p
	out.Hand = cloneCards(p.Hand)
	return out
}

// LogEntry is one human-readable line of the game log.
type LogEntry struct {
	Turn    int       `json:"turn"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// State is the authoritative game snapshot. The controller never mutates a
// State it was given; it clones first.
type State struct {
	ID                 string     `json:"id"`
	Generation         int        `json:"generation"`
	Flow               Flow       `json:"flow"`
	HandSize           int        `json:"hand_size"`
	Players            [2]Player  `json:"players"`
	Deck               []Card     `json:"deck"`
	DiscardPile        []Card     `json:"discard_pile"`
	CurrentPlayerIndex int        `json:"current_player_index"`
	Phase              Phase      `json:"phase"`
	SelectedCardP1     *Card      `json:"selected_card_p1"`
	SelectedCardP2     *Card      `json:"selected_card_p2"`
	PendingSpell       *Card      `json:"pending_spell,omitempty"`
	Winner             *int       `json:"winner"`
	Draw               bool       `json:"draw"`
	Turn               int        `json:"turn"`
	Log                []LogEntry `json:"log"`
	LastCombatSummary  string     `json:"last_combat_summary,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = [2]Player{s.Players[0].Clone(), s.Players[1].Clone()}
	out.Deck = cloneCards(s.Deck)
	out.DiscardPile = cloneCards(s.DiscardPile)
	out.SelectedCardP1 = cloneCardPtr(s.SelectedCardP1)
	out.SelectedCardP2 = cloneCardPtr(s.SelectedCardP2)
	out.PendingSpell = cloneCardPtr(s.PendingSpell)
	if s.Winner != nil {
		w := *s.Winner
		out.Winner = &w
	}
	out.Log = append([]LogEntry(nil), s.Log...)
	return &out
}

// Arena returns the arena slot of player idx.
func (s *State) Arena(idx int) *Card {
	if idx == 0 {
		return s.SelectedCardP1
	}
	return s.SelectedCardP2
}

// SetArena replaces the arena slot of player idx.
func (s *State) SetArena(idx int, c *Card) {
	if idx == 0 {
		s.SelectedCardP1 = c
		return
	}
	s.SelectedCardP2 = c
}

// Opponent returns the other seat index.
func Opponent(idx int) int { return 1 - idx }

// AddLog appends a message stamped with the current turn.
func (s *State) AddLog(msg string, at time.Time) {
	s.Log = append(s.Log, LogEntry{Turn: s.Turn, Message: msg, At: at})
}

// IsOver reports whether the game reached a terminal state.
func (s *State) IsOver() bool { return s.Phase == PhaseGameOver }

// AllCards lists every card instance in the game with its location.
func (s *State) AllCards() []LocatedCard {
	out := make([]LocatedCard, 0, len(s.Deck)+len(s.DiscardPile)+12)
	for pi := range s.Players {
		for _, c := range s.Players[pi].Hand {
			out = append(out, LocatedCard{Card: c, Zone: ZoneHand, Player: pi})
		}
		if a := s.Arena(pi); a != nil {
			out = append(out, LocatedCard{Card: *a, Zone: ZoneArena, Player: pi})
		}
	}
	for _, c := range s.Deck {
		out = append(out, LocatedCard{Card: c, Zone: ZoneDeck, Player: -1})
	}
	for _, c := range s.DiscardPile {
		out = append(out, LocatedCard{Card: c, Zone: ZoneDiscard, Player: -1})
	}
	if s.PendingSpell != nil {
		out = append(out, LocatedCard{Card: *s.PendingSpell, Zone: ZonePending, Player: s.CurrentPlayerIndex})
	}
	return out
}

// Zone names where a card can live.
type Zone string

const (
	ZoneHand    Zone = "hand"
	ZoneArena   Zone = "arena"
	ZoneDeck    Zone = "deck"
	ZoneDiscard Zone = "discard"
	ZonePending Zone = "pending_spell"
)

// LocatedCard pairs a card with where it currently is.
type LocatedCard struct {
	Card   Card
	Zone   Zone
	Player int
}

// UpdateCard applies fn to the card with id wherever it lives. It reports
// false when no such card exists.
func (s *State) UpdateCard(id string, fn func(*Card)) bool {
	for pi := range s.Players {
		for i := range s.Players[pi].Hand {
			if s.Players[pi].Hand[i].ID == id {
				fn(&s.Players[pi].Hand[i])
				return true
			}
		}
		if a := s.Arena(pi); a != nil && a.ID == id {
			fn(a)
			return true
		}
	}
	for i := range s.Deck {
		if s.Deck[i].ID == id {
			fn(&s.Deck[i])
			return true
		}
	}
	for i := range s.DiscardPile {
		if s.DiscardPile[i].ID == id {
			fn(&s.DiscardPile[i])
			return true
		}
	}
	if s.PendingSpell != nil && s.PendingSpell.ID == id {
		fn(s.PendingSpell)
		return true
	}
	return false
}

// Validate checks the card-location and numeric invariants.
func (s *State) Validate() error {
	seen := make(map[string]Zone)
	for _, lc := range s.AllCards() {
		if z, dup := seen[lc.Card.ID]; dup {
			return fmt.Errorf("card %s present in both %s and %s", lc.Card.ID, z, lc.Zone)
		}
		seen[lc.Card.ID] = lc.Zone
		c := lc.Card
		if c.HP < 0 || c.Shield < 0 || c.MagicShield < 0 {
			return fmt.Errorf("card %s has negative stats", c.ID)
		}
		if c.HP > c.MaxHP || c.Shield > c.MaxShield || c.MagicShield > c.MaxMagicShield {
			return fmt.Errorf("card %s exceeds its maximum stats", c.ID)
		}
	}
	for i := range s.Players {
		if s.Players[i].HP < 0 || s.Players[i].HP > s.Players[i].MaxHP {
			return fmt.Errorf("player %d hp %d out of range", i, s.Players[i].HP)
		}
	}
	if s.CurrentPlayerIndex != 0 && s.CurrentPlayerIndex != 1 {
		return fmt.Errorf("invalid current player index %d", s.CurrentPlayerIndex)
	}
	return nil
}

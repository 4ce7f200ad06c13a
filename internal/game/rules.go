package game

// SelectPhaseFor returns the selection phase bound to player idx.
func SelectPhaseFor(idx int) Phase {
	if idx == 0 {
		return PhasePlayer1Select
	}
	return PhasePlayer2Select
}

// BoundPlayer returns the seat that may act in phase, given the current
// player. Phases where nobody or both seats may act report false.
func BoundPlayer(phase Phase, current int) (int, bool) {
	switch phase {
	case PhasePlayer1Select:
		return 0, true
	case PhasePlayer2Select:
		return 1, true
	case PhasePlayerAction, PhaseSelectingSwapMonster:
		return current, true
	}
	return -1, false
}

// CanAct reports whether player idx may submit an intent right now.
func CanAct(s *State, idx int) bool {
	if s == nil || s.IsOver() {
		return false
	}
	if s.Phase == PhaseMulligan {
		return !s.Players[idx].MulliganDecided
	}
	bound, ok := BoundPlayer(s.Phase, s.CurrentPlayerIndex)
	return ok && bound == idx
}

// IsTurnOf reports whether idx is the player whose turn it is.
func IsTurnOf(s *State, idx int) bool {
	return s != nil && !s.IsOver() && s.CurrentPlayerIndex == idx
}

// IsFirstTurn reports whether p has not completed a turn yet.
func IsFirstTurn(p Player) bool { return p.TurnCount == 0 }

// CanMulligan reports whether p may still exchange cards.
func CanMulligan(s *State, idx int) bool {
	p := s.Players[idx]
	return s.Phase == PhaseMulligan && IsFirstTurn(p) && !p.HasMulliganed && !p.MulliganDecided
}

// CanAttack reports whether idx may declare an attack in the action flow.
func CanAttack(s *State, idx int) bool {
	return s != nil && s.Phase == PhasePlayerAction && IsTurnOf(s, idx) &&
		s.Arena(idx) != nil && s.Arena(Opponent(idx)) != nil
}

// Eligible reports whether c may be selected for combat.
func Eligible(c Card) bool { return c.IsMonster() && c.HP > 0 }

// EligibleMonsters lists the hand cards of p that can fight.
func EligibleMonsters(p Player) []Card {
	var out []Card
	for _, c := range p.Hand {
		if Eligible(c) {
			out = append(out, c)
		}
	}
	return out
}

// HasFighter reports whether idx has any monster able to fight, in hand or
// in the arena.
func HasFighter(s *State, idx int) bool {
	if a := s.Arena(idx); a != nil && Eligible(*a) {
		return true
	}
	return len(EligibleMonsters(s.Players[idx])) > 0
}

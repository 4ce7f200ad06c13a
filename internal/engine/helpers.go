package engine

import "github.com/ericogr/arcane-clash/internal/game"

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// playerLabel returns the display name of a player, falling back to the seat.
func playerLabel(p game.Player, idx int) string {
	if p.Name != "" {
		return p.Name
	}
	if idx == 0 {
		return "Player 1"
	}
	return "Player 2"
}

// setOwner stamps owner on every card.
func setOwner(cards []game.Card, owner string) {
	for i := range cards {
		cards[i].Owner = owner
	}
}

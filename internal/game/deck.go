package game

import "math/rand"

// Shuffle returns a uniformly random permutation of cards. The input slice
// is not modified; the same seed yields the same order.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Deal splits off the first n cards. Asking for more cards than remain is
// not an error: the deal is capped and the remainder is empty, so hands
// simply stay short once the deck runs out.
func Deal(cards []Card, n int) (dealt, remaining []Card) {
	if n < 0 {
		n = 0
	}
	if n > len(cards) {
		n = len(cards)
	}
	dealt = append([]Card(nil), cards[:n]...)
	remaining = append([]Card(nil), cards[n:]...)
	return dealt, remaining
}

package game

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedCards(n int) []Card {
	out := make([]Card, n)
	for i := range out {
		out[i] = Card{ID: "c" + strconv.Itoa(i), Title: "Card " + strconv.Itoa(i), CardType: CardTypeMonster}
	}
	return out
}

func ids(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestShuffleIsReproducibleWithSeed(t *testing.T) {
	cards := numberedCards(20)
	a := Shuffle(cards, rand.New(rand.NewSource(42)))
	b := Shuffle(cards, rand.New(rand.NewSource(42)))
	assert.Equal(t, ids(a), ids(b))
	assert.ElementsMatch(t, ids(cards), ids(a))
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	cards := numberedCards(10)
	before := ids(cards)
	_ = Shuffle(cards, rand.New(rand.NewSource(7)))
	assert.Equal(t, before, ids(cards))
}

func TestShuffleCoversPermutations(t *testing.T) {
	cards := numberedCards(3)
	rng := rand.New(rand.NewSource(1))
	seen := map[string]int{}
	for i := 0; i < 600; i++ {
		s := ids(Shuffle(cards, rng))
		seen[s[0]+s[1]+s[2]]++
	}
	assert.Len(t, seen, 6)
}

func TestDealSplitsPrefix(t *testing.T) {
	cards := numberedCards(10)
	dealt, rest := Deal(cards, 4)
	require.Len(t, dealt, 4)
	require.Len(t, rest, 6)
	assert.Equal(t, ids(cards), append(ids(dealt), ids(rest)...))
}

func TestDealIsCapped(t *testing.T) {
	cards := numberedCards(3)
	dealt, rest := Deal(cards, 5)
	assert.Equal(t, ids(cards), ids(dealt))
	assert.Empty(t, rest)

	dealt, rest = Deal(nil, 5)
	assert.Empty(t, dealt)
	assert.Empty(t, rest)

	dealt, rest = Deal(cards, -1)
	assert.Empty(t, dealt)
	assert.Len(t, rest, 3)
}

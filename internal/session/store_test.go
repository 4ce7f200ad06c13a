package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/arcane-clash/internal/game"
)

func sample() *game.State {
	w := 1
	return &game.State{
		ID:         "g-1",
		Generation: 2,
		Flow:       game.FlowSelect,
		HandSize:   5,
		Phase:      game.PhaseGameOver,
		Winner:     &w,
		Players: [2]game.Player{
			{ID: "p1", Name: "Ana", HP: 0, MaxHP: 100},
			{ID: "p2", Name: "Bo", HP: 40, MaxHP: 100, Hand: []game.Card{{ID: "c1", Title: "Imp", CardType: game.CardTypeMonster, HP: 3, MaxHP: 3, Owner: "p2"}}},
		},
		Turn: 4,
	}
}

func exerciseStore(t *testing.T, st Store) {
	ctx := context.Background()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := sample()
	require.NoError(t, st.Save(ctx, s))

	// The stored snapshot is detached from the caller's copy.
	s.Players[1].Hand[0].HP = 0

	got, err := st.Get(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Generation)
	assert.Equal(t, game.PhaseGameOver, got.Phase)
	require.NotNil(t, got.Winner)
	assert.Equal(t, 1, *got.Winner)
	require.Len(t, got.Players[1].Hand, 1)
	assert.Equal(t, 3, got.Players[1].Hand[0].HP)

	require.NoError(t, st.Delete(ctx, "g-1"))
	_, err = st.Get(ctx, "g-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, st.Save(ctx, &game.State{}))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	st, err := NewRedisStore(client, time.Hour)
	require.NoError(t, err)
	exerciseStore(t, st)
}

func TestRedisStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	st, err := NewRedisStore(client, time.Minute)
	require.NoError(t, err)
	require.NoError(t, st.Save(context.Background(), sample()))
	assert.True(t, mr.Exists("arcane:game:g-1"))

	mr.FastForward(2 * time.Minute)
	_, err = st.Get(context.Background(), "g-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRedisClientFailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedisClient(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	_, err := NewRedisStore(nil, time.Minute)
	assert.Error(t, err)
}

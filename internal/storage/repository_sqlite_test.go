package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/arcane-clash/internal/game"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return NewSQLiteRepository(db)
}

func sampleTemplates() []game.Template {
	return []game.Template{
		{Title: "Fire Drake", CardType: game.CardTypeMonster, Melee: 8, HP: 30, Shield: 4},
		{Title: "Stone Golem", CardType: game.CardTypeMonster, Melee: 4, Defense: 5, HP: 40},
		{Title: "Mend", CardType: game.CardTypeSpell, Effect: &game.SpellEffect{Type: game.EffectHeal, Value: 6}},
	}
}

func TestUpsertTemplatesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.UpsertTemplates(ctx, sampleTemplates()))
	changed := sampleTemplates()
	changed[0].Melee = 9
	require.NoError(t, repo.UpsertTemplates(ctx, changed))

	n, err := repo.CountTemplates(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	monsters, err := repo.FetchTemplatesByType(ctx, game.CardTypeMonster)
	require.NoError(t, err)
	require.Len(t, monsters, 2)
	assert.Equal(t, "Fire Drake", monsters[0].Title)
	assert.Equal(t, "fire_drake", monsters[0].ID)
	assert.Equal(t, 9, monsters[0].Melee)

	spells, err := repo.FetchTemplatesByType(ctx, game.CardTypeSpell)
	require.NoError(t, err)
	require.Len(t, spells, 1)
	require.NotNil(t, spells[0].Effect)
	assert.Equal(t, 6, spells[0].Effect.Value)
}

func TestUpsertTemplatesRejectsMalformed(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.UpsertTemplates(context.Background(), []game.Template{{Title: "X", CardType: "Relic"}})
	assert.ErrorIs(t, err, game.ErrCatalog)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	require.NoError(t, SeedIfEmpty(ctx, repo, sampleTemplates()))
	require.NoError(t, SeedIfEmpty(ctx, repo, sampleTemplates()[:1]))
	all, err := repo.AllTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCardAssetCache(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetCardAsset("fire_drake")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.SaveCardDescription("fire_drake", "Fire Drake", "Breathes fire."))
	require.NoError(t, repo.SaveCardImage("fire_drake", "Fire Drake", []byte{1, 2, 3}))
	require.NoError(t, repo.SaveCardDescription("fire_drake", "Fire Drake", "Breathes a lot of fire."))

	a, err := repo.GetCardAsset("fire_drake")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, a.ImagePNG)
	assert.Equal(t, "Breathes a lot of fire.", a.Description)

	require.NoError(t, repo.SaveCardImage("mend", "Mend", []byte{9}))
	a, err = repo.GetCardAsset("mend")
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, a.ImagePNG)
	assert.Empty(t, a.Description)
}

func finished(winner *int, draw bool) *game.State {
	return &game.State{
		Phase:  game.PhaseGameOver,
		Winner: winner,
		Draw:   draw,
		Players: [2]game.Player{
			{Name: "Alice"},
			{Name: "Bob"},
		},
	}
}

func TestStatsAndLeaderboard(t *testing.T) {
	repo := newTestRepo(t)
	zero, one := 0, 1
	require.NoError(t, repo.UpdateStatsOnGameEnd(finished(&zero, false)))
	require.NoError(t, repo.UpdateStatsOnGameEnd(finished(&zero, false)))
	require.NoError(t, repo.UpdateStatsOnGameEnd(finished(&one, false)))
	require.NoError(t, repo.UpdateStatsOnGameEnd(finished(nil, true)))
	require.NoError(t, repo.UpdateStatsOnGameEnd(&game.State{Phase: game.PhasePlayerAction}))

	top, err := repo.GetTopPlayers(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Alice", top[0].PlayerName)
	assert.Equal(t, 4, top[0].GamesPlayed)
	assert.Equal(t, 2, top[0].Wins)
	assert.Equal(t, 1, top[0].Draws)
	assert.Equal(t, 1, top[0].Losses)
	assert.Equal(t, "Bob", top[1].PlayerName)
	assert.Equal(t, 1, top[1].Wins)
	assert.Equal(t, 2, top[1].Losses)

	top, err = repo.GetTopPlayers(1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestClose(t *testing.T) {
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "close.db"))
	require.NoError(t, err)
	require.NoError(t, Close(db))

	_, err = NewSQLiteRepository(db).CountTemplates(context.Background())
	assert.Error(t, err)
}

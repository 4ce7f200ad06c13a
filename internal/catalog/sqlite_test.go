package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/storage"
)

func TestSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := storage.OpenAndMigrate(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	store := NewSQLStore(storage.NewSQLiteRepository(db))

	templates, err := DefaultTemplates()
	require.NoError(t, err)
	require.NoError(t, store.UpsertTemplates(ctx, templates))
	require.NoError(t, store.UpsertTemplates(ctx, templates))

	all, err := FetchAll(ctx, store)
	require.NoError(t, err)
	assert.Len(t, all, len(templates))

	err = store.UpsertTemplates(ctx, []game.Template{{Title: "", CardType: game.CardTypeSpell}})
	assert.ErrorIs(t, err, game.ErrCatalog)
}

package catalog

import (
	"context"

	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/storage"
)

// SQLStore serves the catalog from the local gorm repository.
type SQLStore struct {
	repo storage.Repository
}

func NewSQLStore(repo storage.Repository) *SQLStore {
	return &SQLStore{repo: repo}
}

func (s *SQLStore) FetchByType(ctx context.Context, t game.CardType) ([]game.Template, error) {
	return s.repo.FetchTemplatesByType(ctx, t)
}

func (s *SQLStore) UpsertTemplates(ctx context.Context, templates []game.Template) error {
	templates = normalize(templates)
	if err := Validate(templates); err != nil {
		return err
	}
	return s.repo.UpsertTemplates(ctx, templates)
}

// Package catalog reads and writes card templates. The game only depends on
// Provider; Store adds the idempotent seeding write used by the CLI.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericogr/arcane-clash/internal/game"
)

// Provider supplies immutable templates by card type.
type Provider interface {
	FetchByType(ctx context.Context, t game.CardType) ([]game.Template, error)
}

// Store is a Provider that also accepts an idempotent upsert keyed by title.
type Store interface {
	Provider
	UpsertTemplates(ctx context.Context, templates []game.Template) error
}

// FetchAll returns every monster followed by every spell. An empty catalog
// is a CatalogError.
func FetchAll(ctx context.Context, p Provider) ([]game.Template, error) {
	var out []game.Template
	for _, t := range []game.CardType{game.CardTypeMonster, game.CardTypeSpell} {
		list, err := p.FetchByType(ctx, t)
		if err != nil {
			return nil, &game.CatalogError{Reason: fmt.Sprintf("fetch %s templates: %v", t, err)}
		}
		out = append(out, list...)
	}
	if len(out) == 0 {
		return nil, &game.CatalogError{Reason: "catalog is empty"}
	}
	return out, nil
}

// Validate checks templates before they are written: titles are present and
// unique (case-insensitive), types are known and monsters can fight.
func Validate(templates []game.Template) error {
	seen := make(map[string]struct{}, len(templates))
	for i, t := range templates {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			return &game.CatalogError{Template: fmt.Sprintf("#%d", i), Reason: "missing title"}
		}
		lt := strings.ToLower(title)
		if _, dup := seen[lt]; dup {
			return &game.CatalogError{Template: title, Reason: "duplicate title"}
		}
		seen[lt] = struct{}{}
		ct, ok := game.ParseCardType(string(t.CardType))
		if !ok {
			return &game.CatalogError{Template: title, Reason: fmt.Sprintf("unknown card type %q", t.CardType)}
		}
		if ct == game.CardTypeMonster && t.HP <= 0 {
			return &game.CatalogError{Template: title, Reason: "monster needs hp > 0"}
		}
		if t.Melee < 0 || t.Magic < 0 || t.Defense < 0 || t.Shield < 0 || t.MagicShield < 0 {
			return &game.CatalogError{Template: title, Reason: "negative stats"}
		}
	}
	return nil
}

// normalize canonicalizes card types so lookups by type match.
func normalize(templates []game.Template) []game.Template {
	out := make([]game.Template, len(templates))
	for i, t := range templates {
		if ct, ok := game.ParseCardType(string(t.CardType)); ok {
			t.CardType = ct
		}
		t.Title = strings.TrimSpace(t.Title)
		out[i] = t
	}
	return out
}

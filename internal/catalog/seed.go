package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ericogr/arcane-clash/internal/game"
)

//go:embed default_cards.yaml
var defaultCards []byte

// SeedFile represents the top-level YAML structure.
type SeedFile struct {
	Cards []game.Template `yaml:"cards"`
}

// ParseSeed parses and validates a YAML card list.
func ParseSeed(data []byte) ([]game.Template, error) {
	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse card YAML: %w", err)
	}
	templates := normalize(sf.Cards)
	if len(templates) == 0 {
		return nil, &game.CatalogError{Reason: "seed file lists no cards"}
	}
	if err := Validate(templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// LoadSeedFile reads templates from path, or the built-in catalog when path
// is empty.
func LoadSeedFile(path string) ([]game.Template, error) {
	if path == "" {
		return DefaultTemplates()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data)
}

// DefaultTemplates returns the built-in catalog.
func DefaultTemplates() ([]game.Template, error) {
	return ParseSeed(defaultCards)
}

// Static serves a fixed template list. It backs tests and offline play.
type Static struct {
	templates []game.Template
}

func NewStatic(templates []game.Template) *Static {
	return &Static{templates: normalize(templates)}
}

func (s *Static) FetchByType(_ context.Context, t game.CardType) ([]game.Template, error) {
	var out []game.Template
	for _, tpl := range s.templates {
		if tpl.CardType == t {
			out = append(out, tpl)
		}
	}
	return out, nil
}

package storage

import (
	"strings"
	"time"

	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/keys"
)

// CardTemplateRecord is the persisted form of a catalog template. Title is
// the natural key used by upserts.
type CardTemplateRecord struct {
	ID             uint   `gorm:"primaryKey"`
	Key            string `gorm:"uniqueIndex;not null"`
	Title          string `gorm:"uniqueIndex;not null"`
	CardType       string `gorm:"index;not null"`
	Melee          int
	Magic          int
	Defense        int
	HP             int `gorm:"column:hp"`
	Shield         int
	MagicShield    int
	RollStats      bool
	Copies         int
	Description    string
	EffectType     string
	EffectValue    int
	EffectDuration int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CardTemplateRecord) TableName() string { return "card_templates" }

// Template converts the record into the domain type.
func (r CardTemplateRecord) Template() game.Template {
	t := game.Template{
		ID:          r.Key,
		Title:       r.Title,
		CardType:    game.CardType(r.CardType),
		Melee:       r.Melee,
		Magic:       r.Magic,
		Defense:     r.Defense,
		HP:          r.HP,
		Shield:      r.Shield,
		MagicShield: r.MagicShield,
		RollStats:   r.RollStats,
		Copies:      r.Copies,
		Description: r.Description,
	}
	if r.EffectType != "" {
		t.Effect = &game.SpellEffect{Type: r.EffectType, Value: r.EffectValue, Duration: r.EffectDuration}
	}
	return t
}

func recordFromTemplate(t game.Template) CardTemplateRecord {
	title := strings.TrimSpace(t.Title)
	r := CardTemplateRecord{
		Key:         keys.CardKeyFromTitle(title),
		Title:       title,
		CardType:    string(t.CardType),
		Melee:       t.Melee,
		Magic:       t.Magic,
		Defense:     t.Defense,
		HP:          t.HP,
		Shield:      t.Shield,
		MagicShield: t.MagicShield,
		RollStats:   t.RollStats,
		Copies:      t.Copies,
		Description: t.Description,
	}
	if t.Effect != nil {
		r.EffectType = t.Effect.Type
		r.EffectValue = t.Effect.Value
		r.EffectDuration = t.Effect.Duration
	}
	return r
}

// CardAsset caches generated art and flavor text per card key.
type CardAsset struct {
	ID          uint   `gorm:"primaryKey"`
	CardKey     string `gorm:"uniqueIndex;not null"`
	Title       string
	ImagePNG    []byte `gorm:"column:image_png"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CardAsset) TableName() string { return "card_assets" }

// PlayerStats aggregates finished games per player name.
type PlayerStats struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	PlayerName  string    `gorm:"uniqueIndex;not null" json:"player_name"`
	GamesPlayed int       `json:"games_played"`
	Wins        int       `json:"wins"`
	Draws       int       `json:"draws"`
	Losses      int       `json:"losses"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PlayerStats) TableName() string { return "player_stats" }

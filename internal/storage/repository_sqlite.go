package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericogr/arcane-clash/internal/game"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func toTemplates(records []CardTemplateRecord) []game.Template {
	out := make([]game.Template, len(records))
	for i := range records {
		out[i] = records[i].Template()
	}
	return out
}

func (r *sqliteRepository) FetchTemplatesByType(ctx context.Context, t game.CardType) ([]game.Template, error) {
	var records []CardTemplateRecord
	if err := r.db.WithContext(ctx).Where("card_type = ?", string(t)).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toTemplates(records), nil
}

func (r *sqliteRepository) AllTemplates(ctx context.Context) ([]game.Template, error) {
	var records []CardTemplateRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toTemplates(records), nil
}

func (r *sqliteRepository) CountTemplates(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&CardTemplateRecord{}).Count(&n).Error
	return n, err
}

func (r *sqliteRepository) UpsertTemplates(ctx context.Context, templates []game.Template) error {
	if len(templates) == 0 {
		return nil
	}
	records := make([]CardTemplateRecord, 0, len(templates))
	for _, t := range templates {
		rec := recordFromTemplate(t)
		if rec.Title == "" {
			return &game.CatalogError{Template: t.ID, Reason: "missing title"}
		}
		if _, ok := game.ParseCardType(rec.CardType); !ok {
			return &game.CatalogError{Template: rec.Title, Reason: fmt.Sprintf("unknown card type %q", rec.CardType)}
		}
		records = append(records, rec)
	}
	// Upsert keyed by title so reseeding updates stats in place instead of
	// failing on the unique constraint.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"key", "card_type", "melee", "magic", "defense", "hp", "shield", "magic_shield",
			"roll_stats", "copies", "description", "effect_type", "effect_value", "effect_duration", "updated_at",
		}),
	}).Create(&records).Error
}

func (r *sqliteRepository) GetCardAsset(key string) (*CardAsset, error) {
	var a CardAsset
	if err := r.db.Where("card_key = ?", key).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *sqliteRepository) SaveCardImage(key, title string, png []byte) error {
	// Try to update existing record first
	res := r.db.Model(&CardAsset{}).Where("card_key = ?", key).Update("image_png", png)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// Otherwise create a minimal record
	return r.db.Create(&CardAsset{CardKey: key, Title: title, ImagePNG: png}).Error
}

func (r *sqliteRepository) SaveCardDescription(key, title, description string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
	}).Create(&CardAsset{CardKey: key, Title: title, Description: description}).Error
}

func (r *sqliteRepository) UpdateStatsOnGameEnd(s *game.State) error {
	if s == nil || !s.IsOver() {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Helper to upsert and add deltas
		upsert := func(name string, wins, draws, losses int) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return nil
			}
			var ps PlayerStats
			if err := tx.Where("player_name = ?", name).First(&ps).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				ps = PlayerStats{PlayerName: name}
			}
			ps.GamesPlayed++
			ps.Wins += wins
			ps.Draws += draws
			ps.Losses += losses
			return tx.Save(&ps).Error
		}
		for i, p := range s.Players {
			var wins, draws, losses int
			switch {
			case s.Draw:
				draws = 1
			case s.Winner != nil && *s.Winner == i:
				wins = 1
			case s.Winner != nil:
				losses = 1
			}
			if err := upsert(p.Name, wins, draws, losses); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sqliteRepository) GetTopPlayers(limit int) ([]PlayerStats, error) {
	if limit <= 0 {
		limit = 10
	}
	var stats []PlayerStats
	if err := r.db.Order("wins desc").Order("games_played asc").Order("player_name asc").
		Limit(limit).Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

package storage

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/logging"
)

// OpenAndMigrate opens the sqlite database and keeps the schema current.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&CardTemplateRecord{}, &CardAsset{}, &PlayerStats{}); err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedIfEmpty inserts templates when the catalog table has no rows. It is a
// no-op for a populated catalog, so restarts never clobber edited data.
func SeedIfEmpty(ctx context.Context, repo Repository, templates []game.Template) error {
	n, err := repo.CountTemplates(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := repo.UpsertTemplates(ctx, templates); err != nil {
		return err
	}
	logging.Info("card catalog seeded", logging.Fields{"count": len(templates)})
	return nil
}

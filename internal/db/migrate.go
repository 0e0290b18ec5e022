package db

import (
	"fmt"

	"github.com/jmallard/daybook/internal/models"
	"gorm.io/gorm"
)

// AllModels returns all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Session{},
		&models.Item{},
		&models.ItemCompletion{},
		&models.List{},
		&models.ListItem{},
		&models.CalendarSync{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

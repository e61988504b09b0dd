// Package db handles the PostgreSQL connection
package db

import (
	"fmt"

	"github.com/StrixzIV/adv-compro-finals/config"
	"github.com/StrixzIV/adv-compro-finals/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func New(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL, %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate is separate from New so tests can run it against sqlite
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		model.User{},
		model.Photo{},
		model.Album{},
		model.AlbumPhoto{},
		model.PasswordResetToken{},
	)
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}

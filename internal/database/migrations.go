package database

import (
	"cinevault-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// RunMigrations performs all database migrations
func RunMigrations() error {
	db := GetDB()

	// Run migrations in correct order
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.WatchlistEntry{}); err != nil {
		return err
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}

package repository

import (
	"errors"

	"cinevault-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// AddEntry saves a movie to a user's watchlist. Re-adding the same movie is
// not an error; the existing entry is returned.
func (r *WatchlistRepository) AddEntry(userID, movieID, title, posterURL string) (*models.WatchlistEntry, error) {
	var existing models.WatchlistEntry
	err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := &models.WatchlistEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		MovieID:   movieID,
		Title:     title,
		PosterURL: posterURL,
	}

	if err := r.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntries returns a user's watchlist, most recent first.
func (r *WatchlistRepository) GetEntries(userID string) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// RemoveEntry deletes a movie from a user's watchlist; no-op if absent.
func (r *WatchlistRepository) RemoveEntry(userID, movieID string) error {
	return r.db.Delete(&models.WatchlistEntry{}, "user_id = ? AND movie_id = ?", userID, movieID).Error
}

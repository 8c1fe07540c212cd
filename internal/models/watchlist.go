package models

import "time"

// WatchlistEntry is a movie a user has saved from the external catalog.
type WatchlistEntry struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;index:idx_watchlist_user_movie,unique"`
	MovieID   string    `json:"movieId" gorm:"type:varchar(64);not null;index:idx_watchlist_user_movie,unique"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	PosterURL string    `json:"posterUrl" gorm:"column:poster_url;type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;not null"`
}

// TableName specifies the table name for GORM
func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}

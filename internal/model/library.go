package model

import "time"

// LibraryEntry records a user's ownership of a game, at most one per (user, game).
// Derived from a completed purchase or a free-game download.
type LibraryEntry struct {
	UserID UserID `json:"user_id"`
	GameID GameID `json:"game_id"`
	// Playtime is accumulated play minutes
	Playtime   int        `json:"playtime"`
	LastPlayed *time.Time `json:"last_played,omitempty"`
	IsFavorite bool       `json:"is_favorite"`
	Installed  bool       `json:"installed"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

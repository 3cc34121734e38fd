package model

import "time"

// GameID uniquely identifies a catalog entry
type GameID string

// Genres is the fixed set of catalog genres
var Genres = []string{
	"action", "adventure", "rpg", "strategy", "simulation", "sports",
	"racing", "puzzle", "horror", "fps", "mmo", "indie", "casual",
	"fighting", "platformer", "sandbox", "battle-royale", "survival",
}

// ValidGenre reports whether g is a known genre
func ValidGenre(g string) bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// Game is a purchasable catalog entry
type Game struct {
	ID               GameID    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description,omitempty"`
	// Price is in integer currency units; zero means free
	Price           int      `json:"price"`
	DiscountPercent int      `json:"discount_percent"`
	Genres          []string `json:"genres"`
	Tags            []string `json:"tags,omitempty"`
	DeveloperID     UserID   `json:"developer_id"`
	Publisher       string   `json:"publisher,omitempty"`
	CoverImage      string   `json:"cover_image,omitempty"`
	Screenshots     []string `json:"screenshots,omitempty"`
	TrailerURL      string   `json:"trailer_url,omitempty"`
	DownloadURL     string   `json:"download_url"`
	FileSize        string   `json:"file_size,omitempty"`
	CurrentVersion  string   `json:"current_version"`
	Platforms       []string `json:"platforms,omitempty"`
	// AverageRating is 0-5, one decimal, recomputed from reviews
	AverageRating  float64   `json:"average_rating"`
	TotalReviews   int       `json:"total_reviews"`
	TotalDownloads int       `json:"total_downloads"`
	TotalWishlists int       `json:"total_wishlists"`
	ReleaseDate    time.Time `json:"release_date"`
	IsFeatured     bool      `json:"is_featured"`
	IsPublished    bool      `json:"is_published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FinalPrice is the price after the current discount, truncated to whole units.
// Integer math keeps the rounding identical everywhere a price is computed.
func (g *Game) FinalPrice() int {
	return g.Price * (100 - g.DiscountPercent) / 100
}

// HasGenre reports whether the game carries the given genre
func (g *Game) HasGenre(genre string) bool {
	for _, have := range g.Genres {
		if have == genre {
			return true
		}
	}
	return false
}

package model

import "time"

// UserID uniquely identifies a user account
type UserID string

// Role determines what a user is allowed to do
type Role string

const (
	RoleUser      Role = "user"
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
)

// PresenceStatus is a user's live connection state
type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusOffline PresenceStatus = "offline"
	StatusAway    PresenceStatus = "away"
	StatusInGame  PresenceStatus = "in-game"
)

// User is an account on the platform
type User struct {
	ID           UserID         `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"password_hash"`
	Avatar       string         `json:"avatar,omitempty"`
	Bio          string         `json:"bio,omitempty"`
	Country      string         `json:"country,omitempty"`
	Role         Role           `json:"role"`
	IsVerified   bool           `json:"is_verified"`
	VerifyToken  string         `json:"verify_token,omitempty"`
	Status       PresenceStatus `json:"status"`
	CurrentGame  string         `json:"current_game,omitempty"`
	Wishlist     []GameID       `json:"wishlist"`
	BlockedUsers []UserID       `json:"blocked_users"`
	Level        int            `json:"level"`
	XP           int            `json:"xp"`
	// TotalPlaytime is accumulated play minutes across the whole library
	TotalPlaytime int        `json:"total_playtime"`
	LastOnline    *time.Time `json:"last_online,omitempty"`
	IsBanned      bool       `json:"is_banned"`
	BanReason     string     `json:"ban_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasWishlisted reports whether the game is on the user's wishlist
func (u *User) HasWishlisted(id GameID) bool {
	for _, g := range u.Wishlist {
		if g == id {
			return true
		}
	}
	return false
}

// RemoveFromWishlist removes the game from the wishlist, reporting whether it was present
func (u *User) RemoveFromWishlist(id GameID) bool {
	for i, g := range u.Wishlist {
		if g == id {
			u.Wishlist = append(u.Wishlist[:i], u.Wishlist[i+1:]...)
			return true
		}
	}
	return false
}

// HasBlocked reports whether the user has blocked the given user
func (u *User) HasBlocked(id UserID) bool {
	for _, b := range u.BlockedUsers {
		if b == id {
			return true
		}
	}
	return false
}

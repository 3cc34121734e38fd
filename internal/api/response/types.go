package response

import (
	"time"

	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/auth"
)

// User is the public view of an account. Credentials and moderation
// internals never leave the server.
type User struct {
	ID            string               `json:"id"`
	Username      string               `json:"username"`
	Email         string               `json:"email,omitempty"`
	Avatar        string               `json:"avatar,omitempty"`
	Bio           string               `json:"bio,omitempty"`
	Country       string               `json:"country,omitempty"`
	Role          string               `json:"role"`
	IsVerified    bool                 `json:"is_verified"`
	Status        model.PresenceStatus `json:"status"`
	CurrentGame   string               `json:"current_game,omitempty"`
	Level         int                  `json:"level"`
	XP            int                  `json:"xp"`
	TotalPlaytime int                  `json:"total_playtime"`
	LastOnline    *time.Time           `json:"last_online,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// UserFromModel converts a model.User to its public view
func UserFromModel(u *model.User) User {
	return User{
		ID:            string(u.ID),
		Username:      u.Username,
		Avatar:        u.Avatar,
		Bio:           u.Bio,
		Country:       u.Country,
		Role:          string(u.Role),
		IsVerified:    u.IsVerified,
		Status:        u.Status,
		CurrentGame:   u.CurrentGame,
		Level:         u.Level,
		XP:            u.XP,
		TotalPlaytime: u.TotalPlaytime,
		LastOnline:    u.LastOnline,
		CreatedAt:     u.CreatedAt,
	}
}

// OwnUserFromModel is the view a user gets of their own account.
// It additionally carries the email address.
func OwnUserFromModel(u *model.User) User {
	out := UserFromModel(u)
	out.Email = u.Email
	return out
}

// UsersFromModels converts a slice of users to their public views
func UsersFromModels(users []*model.User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = UserFromModel(u)
	}
	return out
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFrom creates an AuthResponse from a user and session
func AuthResponseFrom(u *model.User, s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         OwnUserFromModel(u),
		SessionToken: s.Token,
	}
}

// GameList is a paged catalog listing
type GameList struct {
	Games    []*model.Game `json:"games"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// LibraryItem pairs a library entry with its catalog listing
type LibraryItem struct {
	Entry *model.LibraryEntry `json:"entry"`
	Game  *model.Game         `json:"game"`
}

// DownloadResponse carries the download link for an owned game
type DownloadResponse struct {
	DownloadURL string `json:"download_url"`
}

// ReviewList is a paged set of reviews for one game
type ReviewList struct {
	Reviews []*model.Review `json:"reviews"`
	Total   int             `json:"total"`
}

// NotificationList is a paged set of notifications with unread bookkeeping
type NotificationList struct {
	Notifications []*model.Notification `json:"notifications"`
	Total         int                   `json:"total"`
	Unread        int                   `json:"unread"`
}

// MessageList is a chronological page of one conversation
type MessageList struct {
	Messages []*model.ChatMessage `json:"messages"`
	Total    int                  `json:"total"`
}

// MarkReadResponse reports how many messages a read receipt covered
type MarkReadResponse struct {
	Marked int `json:"marked"`
}

// FriendRequestView pairs a pending request with its sender's public profile
type FriendRequestView struct {
	Request *model.FriendRequest `json:"request"`
	Sender  User                 `json:"sender"`
}

// GenreCount is one genre's catalog size
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

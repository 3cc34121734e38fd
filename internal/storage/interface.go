package storage

import (
	"context"
	"time"

	"github.com/jfmcewan/gamehub/internal/model"
)

// GameFilter narrows and pages catalog listings
type GameFilter struct {
	Genre         string
	Tag           string
	Search        string
	MinPrice      *int
	MaxPrice      *int
	PublishedOnly bool
	FeaturedOnly  bool
	// Sort is one of "newest", "rating", "downloads", "price"
	Sort     string
	Page     int
	PageSize int
}

// Store defines the interface for data persistence
type Store interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	SearchUsers(ctx context.Context, query string, exclude model.UserID, limit int) ([]*model.User, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGameBySlug(ctx context.Context, slug string) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGames(ctx context.Context, filter GameFilter) ([]*model.Game, int, error)

	// Purchase operations
	SavePurchase(ctx context.Context, purchase *model.Purchase) error
	GetCompletedPurchase(ctx context.Context, user model.UserID, game model.GameID) (*model.Purchase, error)
	ListUserPurchases(ctx context.Context, user model.UserID) ([]*model.Purchase, error)
	// RecordPurchase commits a purchase, its library entry, and the updated
	// buyer (wishlist already pruned) as a single unit, so a completed
	// purchase can never exist without its library entry.
	RecordPurchase(ctx context.Context, purchase *model.Purchase, entry *model.LibraryEntry, buyer *model.User) error

	// Library operations
	SaveLibraryEntry(ctx context.Context, entry *model.LibraryEntry) error
	GetLibraryEntry(ctx context.Context, user model.UserID, game model.GameID) (*model.LibraryEntry, error)
	ListLibrary(ctx context.Context, user model.UserID) ([]*model.LibraryEntry, error)

	// Chat operations
	SaveMessage(ctx context.Context, msg *model.ChatMessage) error
	GetMessage(ctx context.Context, id model.MessageID) (*model.ChatMessage, error)
	// ListRoomMessages returns non-deleted messages newest-first with the
	// total non-deleted count for the room.
	ListRoomMessages(ctx context.Context, room model.RoomID, offset, limit int) ([]*model.ChatMessage, int, error)
	RoomsForUser(ctx context.Context, user model.UserID) ([]model.RoomID, error)
	// MarkRoomRead stamps all unread messages in room addressed to reader,
	// returning how many were updated.
	MarkRoomRead(ctx context.Context, room model.RoomID, reader model.UserID, at time.Time) (int, error)
	UnreadCount(ctx context.Context, room model.RoomID, reader model.UserID) (int, error)

	// Friend request operations
	SaveFriendRequest(ctx context.Context, req *model.FriendRequest) error
	GetFriendRequest(ctx context.Context, id model.RequestID) (*model.FriendRequest, error)
	FindRequestBetween(ctx context.Context, a, b model.UserID) (*model.FriendRequest, error)
	DeleteFriendRequest(ctx context.Context, id model.RequestID) error
	ListRequestsForUser(ctx context.Context, user model.UserID) ([]*model.FriendRequest, error)

	// Notification operations
	SaveNotification(ctx context.Context, n *model.Notification) error
	GetNotification(ctx context.Context, id model.NotificationID) (*model.Notification, error)
	DeleteNotification(ctx context.Context, id model.NotificationID) error
	// ListNotifications returns a page newest-first plus total and unread counts
	ListNotifications(ctx context.Context, user model.UserID, offset, limit int) ([]*model.Notification, int, int, error)
	MarkAllNotificationsRead(ctx context.Context, user model.UserID) (int, error)

	// Review operations
	SaveReview(ctx context.Context, review *model.Review) error
	GetReview(ctx context.Context, id model.ReviewID) (*model.Review, error)
	GetReviewByUserGame(ctx context.Context, user model.UserID, game model.GameID) (*model.Review, error)
	DeleteReview(ctx context.Context, id model.ReviewID) error
	ListGameReviews(ctx context.Context, game model.GameID, offset, limit int) ([]*model.Review, int, error)
	ListAllGameReviews(ctx context.Context, game model.GameID) ([]*model.Review, error)

	// Achievement operations
	SaveAchievement(ctx context.Context, a *model.Achievement) error
	GetAchievement(ctx context.Context, id model.AchievementID) (*model.Achievement, error)
	ListGameAchievements(ctx context.Context, game model.GameID) ([]*model.Achievement, error)
	SaveUserAchievement(ctx context.Context, ua *model.UserAchievement) error
	GetUserAchievement(ctx context.Context, user model.UserID, achievement model.AchievementID) (*model.UserAchievement, error)
	ListUserAchievements(ctx context.Context, user model.UserID) ([]*model.UserAchievement, error)
}

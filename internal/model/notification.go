package model

import "time"

// NotificationID uniquely identifies a notification
type NotificationID string

// NotificationKind classifies what caused a notification
type NotificationKind string

const (
	NotifyChat          NotificationKind = "chat"
	NotifyFriendRequest NotificationKind = "friend_request"
	NotifyAchievement   NotificationKind = "achievement"
	NotifyPurchase      NotificationKind = "purchase"
	NotifySystem        NotificationKind = "system"
)

// Notification is the durable trace of an event addressed to one user.
// Notifications are only ever created as side effects of other transitions.
type Notification struct {
	ID      NotificationID   `json:"id"`
	UserID  UserID           `json:"user_id"`
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	// Data is an opaque payload interpreted by the client
	Data      map[string]string `json:"data,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}

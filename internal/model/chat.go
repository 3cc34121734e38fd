package model

import "time"

// MessageID uniquely identifies a chat message
type MessageID string

// RoomID is the canonical addressing key for a two-party conversation.
// It is always derived from the two participant IDs, never chosen freely.
type RoomID string

// NewRoomID derives the room key for a pair of users. Both orderings of
// the same pair produce the same room.
func NewRoomID(a, b UserID) RoomID {
	if b < a {
		a, b = b, a
	}
	return RoomID(string(a) + "_" + string(b))
}

// MessageType classifies chat message content
type MessageType string

const (
	MessageText       MessageType = "text"
	MessageImage      MessageType = "image"
	MessageSystem     MessageType = "system"
	MessageGameInvite MessageType = "game-invite"
)

// ChatMessage is one persisted message between two users
type ChatMessage struct {
	ID         MessageID   `json:"id"`
	SenderID   UserID      `json:"sender_id"`
	ReceiverID UserID      `json:"receiver_id"`
	Room       RoomID      `json:"room"`
	Content    string      `json:"content"`
	Type       MessageType `json:"type"`
	// ReadAt is nil until the receiver marks the room read
	ReadAt    *time.Time `json:"read_at,omitempty"`
	IsDeleted bool       `json:"is_deleted"`
	CreatedAt time.Time  `json:"created_at"`
}

// Conversation summarizes one room for a user's conversation list
type Conversation struct {
	Room        RoomID      `json:"room"`
	LastMessage ChatMessage `json:"last_message"`
	UnreadCount int         `json:"unread_count"`
}

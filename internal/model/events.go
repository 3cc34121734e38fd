package model

// Socket event names. Inbound names are what clients send; outbound names are
// what the server emits. They are part of the wire contract and must not change.
const (
	// Inbound
	EventJoinRoom    = "join_room"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventStopTyping  = "stop_typing"
	EventPlayingGame = "playing_game"

	// Outbound
	EventJoinedRoom   = "joined_room"
	EventNewMessage   = "new_message"
	EventNotification = "notification"
	EventUserStatus   = "user_status"
	EventUserTyping   = "user_typing"
	EventStopTypingTo = "user_stop_typing"
	EventError        = "error"
)

// JoinRoomPayload asks to join the conversation room shared with another user
type JoinRoomPayload struct {
	UserID UserID `json:"userId"`
}

// SendMessagePayload carries an outgoing chat message
type SendMessagePayload struct {
	ReceiverID UserID      `json:"receiverId"`
	Content    string      `json:"content"`
	Type       MessageType `json:"type,omitempty"`
}

// TypingPayload signals a typing state change toward another user
type TypingPayload struct {
	ReceiverID UserID `json:"receiverId"`
}

// PlayingGamePayload reports the game the user is currently playing
type PlayingGamePayload struct {
	GameName string `json:"gameName"`
}

// JoinedRoomPayload confirms room membership to the requesting client
type JoinedRoomPayload struct {
	Room RoomID `json:"room"`
}

// UserStatusPayload announces a presence change to all connected listeners
type UserStatusPayload struct {
	UserID      UserID         `json:"userId"`
	Status      PresenceStatus `json:"status"`
	CurrentGame string         `json:"currentGame,omitempty"`
}

// UserTypingPayload tells a room that a participant is typing
type UserTypingPayload struct {
	UserID   UserID `json:"userId"`
	Username string `json:"username,omitempty"`
}

// NotificationPayload is the realtime (non-durable) form of a notification
type NotificationPayload struct {
	Kind    NotificationKind `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
}

// ErrorPayload reports a failed socket operation back to the sender only
type ErrorPayload struct {
	Message string `json:"message"`
}

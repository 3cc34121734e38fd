package model

import "time"

// RequestID uniquely identifies a friend request
type RequestID string

// FriendRequestStatus is the lifecycle state of a friend request
type FriendRequestStatus string

const (
	RequestPending  FriendRequestStatus = "pending"
	RequestAccepted FriendRequestStatus = "accepted"
	RequestDeclined FriendRequestStatus = "declined"
	RequestBlocked  FriendRequestStatus = "blocked"
)

// FriendRequest links two users. At most one request exists per unordered
// (sender, receiver) pair regardless of which side sent it.
type FriendRequest struct {
	ID         RequestID           `json:"id"`
	SenderID   UserID              `json:"sender_id"`
	ReceiverID UserID              `json:"receiver_id"`
	Status     FriendRequestStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Involves reports whether the request is between the two given users, in either direction
func (r *FriendRequest) Involves(a, b UserID) bool {
	return (r.SenderID == a && r.ReceiverID == b) || (r.SenderID == b && r.ReceiverID == a)
}

// Other returns the participant that is not the given user
func (r *FriendRequest) Other(u UserID) UserID {
	if r.SenderID == u {
		return r.ReceiverID
	}
	return r.SenderID
}

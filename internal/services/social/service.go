package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/notify"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// Service manages friendships, blocking and user lookup
type Service struct {
	storage  storage.Store
	clock    clock.Clock
	notifier *notify.Service
	logger   *slog.Logger
}

// New creates a new social service
func New(store storage.Store, clk clock.Clock, notifier *notify.Service, logger *slog.Logger) *Service {
	return &Service{storage: store, clock: clk, notifier: notifier, logger: logger}
}

// SendRequest creates a friend request. At most one request record
// exists per pair of users, in whatever state; any existing record,
// including a declined one, makes a new request a conflict.
func (s *Service) SendRequest(ctx context.Context, senderID, receiverID model.UserID) (*model.FriendRequest, error) {
	if senderID == receiverID {
		return nil, model.ErrSelfRequest
	}

	sender, err := s.storage.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.storage.GetUser(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if sender.HasBlocked(receiverID) || receiver.HasBlocked(senderID) {
		return nil, model.ErrBlocked
	}

	if _, err := s.storage.FindRequestBetween(ctx, senderID, receiverID); err == nil {
		return nil, model.ErrRequestExists
	} else if !errors.Is(err, model.ErrRequestNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	req := &model.FriendRequest{
		ID:         model.RequestID(uuid.NewString()),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.RequestPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.storage.SaveFriendRequest(ctx, req); err != nil {
		return nil, err
	}

	s.notifyRequest(ctx, sender, receiverID)
	return req, nil
}

// AcceptRequest accepts a pending request addressed to the caller
func (s *Service) AcceptRequest(ctx context.Context, userID model.UserID, requestID model.RequestID) (*model.FriendRequest, error) {
	req, err := s.storage.GetFriendRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != userID || req.Status != model.RequestPending {
		return nil, model.ErrRequestNotFound
	}

	req.Status = model.RequestAccepted
	req.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveFriendRequest(ctx, req); err != nil {
		return nil, err
	}

	if accepter, err := s.storage.GetUser(ctx, userID); err == nil {
		s.notifier.Notify(ctx, req.SenderID, model.NotifyFriendRequest,
			"Friend request accepted",
			fmt.Sprintf("%s accepted your friend request", accepter.Username),
			map[string]string{"user_id": string(userID)},
		)
	}
	return req, nil
}

// DeclineRequest declines a pending request addressed to the caller
func (s *Service) DeclineRequest(ctx context.Context, userID model.UserID, requestID model.RequestID) (*model.FriendRequest, error) {
	req, err := s.storage.GetFriendRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != userID || req.Status != model.RequestPending {
		return nil, model.ErrRequestNotFound
	}

	req.Status = model.RequestDeclined
	req.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveFriendRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// RemoveFriend deletes an accepted friendship from either side
func (s *Service) RemoveFriend(ctx context.Context, userID, friendID model.UserID) error {
	req, err := s.storage.FindRequestBetween(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if req.Status != model.RequestAccepted || !req.Involves(userID, friendID) {
		return model.ErrRequestNotFound
	}
	return s.storage.DeleteFriendRequest(ctx, req.ID)
}

// Friends returns the users the caller has an accepted friendship with
func (s *Service) Friends(ctx context.Context, userID model.UserID) ([]*model.User, error) {
	reqs, err := s.storage.ListRequestsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var friends []*model.User
	for _, req := range reqs {
		if req.Status != model.RequestAccepted {
			continue
		}
		friend, err := s.storage.GetUser(ctx, req.Other(userID))
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		friends = append(friends, friend)
	}
	return friends, nil
}

// PendingRequests returns pending requests addressed to the caller
func (s *Service) PendingRequests(ctx context.Context, userID model.UserID) ([]*model.FriendRequest, error) {
	reqs, err := s.storage.ListRequestsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pending []*model.FriendRequest
	for _, req := range reqs {
		if req.Status == model.RequestPending && req.ReceiverID == userID {
			pending = append(pending, req)
		}
	}
	return pending, nil
}

// Block adds a user to the caller's block list and marks the pair's
// request record blocked, creating one if none exists. The blocked
// record is what stops new requests between the pair.
func (s *Service) Block(ctx context.Context, userID, targetID model.UserID) error {
	if userID == targetID {
		return model.ErrSelfRequest
	}
	if _, err := s.storage.GetUser(ctx, targetID); err != nil {
		return err
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if !user.HasBlocked(targetID) {
		user.BlockedUsers = append(user.BlockedUsers, targetID)
		user.UpdatedAt = now
		if err := s.storage.SaveUser(ctx, user); err != nil {
			return err
		}
	}

	req, err := s.storage.FindRequestBetween(ctx, userID, targetID)
	switch {
	case err == nil:
		if req.Status == model.RequestBlocked {
			return nil
		}
		req.Status = model.RequestBlocked
		req.UpdatedAt = now
	case errors.Is(err, model.ErrRequestNotFound):
		req = &model.FriendRequest{
			ID:         model.RequestID(uuid.NewString()),
			SenderID:   userID,
			ReceiverID: targetID,
			Status:     model.RequestBlocked,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	default:
		return err
	}
	return s.storage.SaveFriendRequest(ctx, req)
}

// Unblock removes a user from the caller's block list and drops the
// pair's blocked request record so either side can request again
func (s *Service) Unblock(ctx context.Context, userID, targetID model.UserID) error {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	kept := user.BlockedUsers[:0]
	for _, id := range user.BlockedUsers {
		if id != targetID {
			kept = append(kept, id)
		}
	}
	user.BlockedUsers = kept
	user.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return err
	}

	req, err := s.storage.FindRequestBetween(ctx, userID, targetID)
	switch {
	case errors.Is(err, model.ErrRequestNotFound):
		return nil
	case err != nil:
		return err
	}
	if req.Status != model.RequestBlocked {
		return nil
	}
	return s.storage.DeleteFriendRequest(ctx, req.ID)
}

// SearchUsers finds users by username fragment, excluding the caller
func (s *Service) SearchUsers(ctx context.Context, callerID model.UserID, query string, limit int) ([]*model.User, error) {
	if query == "" {
		return []*model.User{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.storage.SearchUsers(ctx, query, callerID, limit)
}

func (s *Service) notifyRequest(ctx context.Context, sender *model.User, receiverID model.UserID) {
	s.notifier.Notify(ctx, receiverID, model.NotifyFriendRequest,
		"New friend request",
		fmt.Sprintf("%s sent you a friend request", sender.Username),
		map[string]string{"user_id": string(sender.ID)},
	)
}

package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// Pusher delivers an event to a user's live connections, if any.
// Implemented by the realtime hub; a nil-safe no-op is used in tests.
type Pusher interface {
	PushToUser(userID model.UserID, event string, payload any)
}

// Service records notifications and fans them out to live connections.
// Notifications are only ever created as side effects of other actions.
type Service struct {
	storage storage.Store
	clock   clock.Clock
	pusher  Pusher
	logger  *slog.Logger
}

// New creates a new notification service. pusher may be nil.
func New(store storage.Store, clk clock.Clock, pusher Pusher, logger *slog.Logger) *Service {
	return &Service{storage: store, clock: clk, pusher: pusher, logger: logger}
}

// Notify records a notification and pushes it to the recipient's live
// connections. Persistence failures are logged, not propagated: the
// action that triggered the notification must not fail because of it.
func (s *Service) Notify(ctx context.Context, userID model.UserID, kind model.NotificationKind, title, message string, data map[string]string) {
	n := &model.Notification{
		ID:        model.NotificationID(uuid.NewString()),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveNotification(ctx, n); err != nil {
		s.logger.Error("failed to save notification", "user_id", userID, "kind", kind, "error", err)
		return
	}

	if s.pusher != nil {
		s.pusher.PushToUser(userID, model.EventNotification, model.NotificationPayload{
			Kind:    kind,
			Title:   title,
			Message: message,
		})
	}
}

// List returns a page of the user's notifications, newest first, with
// the total and unread counts.
func (s *Service) List(ctx context.Context, userID model.UserID, offset, limit int) ([]*model.Notification, int, int, error) {
	return s.storage.ListNotifications(ctx, userID, offset, limit)
}

// MarkRead marks one of the user's notifications read
func (s *Service) MarkRead(ctx context.Context, userID model.UserID, id model.NotificationID) (*model.Notification, error) {
	n, err := s.storage.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, model.ErrNotificationNotFound
	}
	if n.Read {
		return n, nil
	}

	n.Read = true
	if err := s.storage.SaveNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllRead marks every unread notification read, returning the count
func (s *Service) MarkAllRead(ctx context.Context, userID model.UserID) (int, error) {
	return s.storage.MarkAllNotificationsRead(ctx, userID)
}

// Delete removes one of the user's notifications
func (s *Service) Delete(ctx context.Context, userID model.UserID, id model.NotificationID) error {
	n, err := s.storage.GetNotification(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return model.ErrNotificationNotFound
	}
	return s.storage.DeleteNotification(ctx, id)
}

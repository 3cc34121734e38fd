package chat

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/notify"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// Fanout delivers an event to a room's live connections.
// Implemented by the realtime hub; nil disables live delivery.
type Fanout interface {
	BroadcastToRoom(room model.RoomID, event string, payload any)
}

// Service persists direct messages and answers conversation queries.
// Delivery side effects belong to the append itself, so REST and
// socket sends behave identically.
type Service struct {
	storage  storage.Store
	clock    clock.Clock
	fanout   Fanout
	notifier *notify.Service
	logger   *slog.Logger
}

// New creates a new chat service. fanout and notifier may be nil.
func New(store storage.Store, clk clock.Clock, fanout Fanout, notifier *notify.Service, logger *slog.Logger) *Service {
	return &Service{storage: store, clock: clk, fanout: fanout, notifier: notifier, logger: logger}
}

// SendMessage validates and persists a direct message, fans it out to
// the room's live connections and notifies the receiver
func (s *Service) SendMessage(ctx context.Context, senderID, receiverID model.UserID, content string, msgType model.MessageType) (*model.ChatMessage, error) {
	if senderID == receiverID {
		return nil, model.ErrSelfMessage
	}
	if strings.TrimSpace(content) == "" {
		return nil, model.ErrValidation
	}
	if msgType == "" {
		msgType = model.MessageText
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

	msg := &model.ChatMessage{
		ID:         model.MessageID(uuid.NewString()),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Room:       model.NewRoomID(senderID, receiverID),
		Content:    content,
		Type:       msgType,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.storage.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.fanout != nil {
		s.fanout.BroadcastToRoom(msg.Room, model.EventNewMessage, msg)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, receiverID, model.NotifyChat,
			"New message",
			sender.Username+" sent you a message",
			map[string]string{"sender_id": string(senderID), "room": string(msg.Room)},
		)
	}
	return msg, nil
}

// History returns a page of the conversation between two users in
// chronological order, plus the total message count. Paging walks
// backwards from the newest message.
func (s *Service) History(ctx context.Context, userID, otherID model.UserID, offset, limit int) ([]*model.ChatMessage, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	room := model.NewRoomID(userID, otherID)
	page, total, err := s.storage.ListRoomMessages(ctx, room, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	// Newest-first from storage; callers render oldest-first
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, total, nil
}

// MarkRead stamps every unread message addressed to the reader in the
// conversation, returning how many were stamped
func (s *Service) MarkRead(ctx context.Context, readerID, otherID model.UserID) (int, error) {
	room := model.NewRoomID(readerID, otherID)
	return s.storage.MarkRoomRead(ctx, room, readerID, s.clock.Now())
}

// DeleteMessage soft-deletes the sender's own message
func (s *Service) DeleteMessage(ctx context.Context, userID model.UserID, messageID model.MessageID) error {
	msg, err := s.storage.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID || msg.IsDeleted {
		return model.ErrMessageNotFound
	}

	msg.IsDeleted = true
	return s.storage.SaveMessage(ctx, msg)
}

// Conversations summarizes every room the user has messages in: the
// last message plus the unread count, ordered by recency.
func (s *Service) Conversations(ctx context.Context, userID model.UserID) ([]*model.Conversation, error) {
	rooms, err := s.storage.RoomsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var convs []*model.Conversation
	for _, room := range rooms {
		page, _, err := s.storage.ListRoomMessages(ctx, room, 0, 1)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			continue
		}

		unread, err := s.storage.UnreadCount(ctx, room, userID)
		if err != nil {
			return nil, err
		}
		convs = append(convs, &model.Conversation{
			Room:        room,
			LastMessage: *page[0],
			UnreadCount: unread,
		})
	}

	// Most recently active conversation first
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].LastMessage.CreatedAt.After(convs[j].LastMessage.CreatedAt)
	})
	return convs, nil
}

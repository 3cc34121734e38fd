package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jfmcewan/gamehub/internal/dependencies/mocks"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/notify"
	"github.com/jfmcewan/gamehub/internal/storage/memory"
	"github.com/jfmcewan/gamehub/internal/testutil"
)

// recordingFanout captures room broadcasts for assertions
type recordingFanout struct {
	broadcasts []broadcastCall
}

type broadcastCall struct {
	room  model.RoomID
	event string
}

func (f *recordingFanout) BroadcastToRoom(room model.RoomID, event string, payload any) {
	f.broadcasts = append(f.broadcasts, broadcastCall{room: room, event: event})
}

type ChatSuite struct {
	suite.Suite
	storage *memory.Store
	clock   *mocks.MockClock
	fanout  *recordingFanout
	service *Service
	ctx     context.Context
	alice   *model.User
	bob     *model.User
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, new(ChatSuite))
}

func (s *ChatSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.fanout = &recordingFanout{}
	logger := testutil.NopLogger()
	s.service = New(s.storage, s.clock, s.fanout, notify.New(s.storage, s.clock, nil, logger), logger)
	s.ctx = context.Background()

	s.alice = &model.User{ID: "user-a", Username: "alice", Email: "alice@example.com"}
	s.bob = &model.User{ID: "user-b", Username: "bob", Email: "bob@example.com"}
	for _, u := range []*model.User{s.alice, s.bob} {
		s.Require().NoError(s.storage.SaveUser(s.ctx, u))
	}
}

func (s *ChatSuite) send(from, to model.UserID, content string) *model.ChatMessage {
	msg, err := s.service.SendMessage(s.ctx, from, to, content, "")
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	return msg
}

func (s *ChatSuite) TestSendMessageDerivesRoom() {
	msg := s.send(s.alice.ID, s.bob.ID, "hi bob")

	s.Equal(model.RoomID("user-a_user-b"), msg.Room)
	s.Equal(model.MessageText, msg.Type)
	s.Nil(msg.ReadAt)

	// The reverse direction lands in the same room
	reply := s.send(s.bob.ID, s.alice.ID, "hi alice")
	s.Equal(msg.Room, reply.Room)
}

func (s *ChatSuite) TestSendMessageBroadcastsToRoom() {
	msg := s.send(s.alice.ID, s.bob.ID, "hi bob")

	s.Require().Len(s.fanout.broadcasts, 1)
	s.Equal(msg.Room, s.fanout.broadcasts[0].room)
	s.Equal(model.EventNewMessage, s.fanout.broadcasts[0].event)
}

func (s *ChatSuite) TestSendMessageNotifiesReceiver() {
	s.send(s.alice.ID, s.bob.ID, "hi bob")

	notifs, total, _, err := s.storage.ListNotifications(s.ctx, s.bob.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(notifs, 1)
	s.Equal(model.NotifyChat, notifs[0].Kind)
	s.Contains(notifs[0].Message, s.alice.Username)

	// The sender gets nothing
	_, total, _, err = s.storage.ListNotifications(s.ctx, s.alice.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal(0, total)
}

func (s *ChatSuite) TestSendMessageValidation() {
	_, err := s.service.SendMessage(s.ctx, s.alice.ID, s.alice.ID, "me", "")
	s.ErrorIs(err, model.ErrSelfMessage)

	_, err = s.service.SendMessage(s.ctx, s.alice.ID, s.bob.ID, "   ", "")
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.SendMessage(s.ctx, s.alice.ID, "ghost", "hello?", "")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ChatSuite) TestSendMessageBlocked() {
	s.bob.BlockedUsers = []model.UserID{s.alice.ID}
	s.Require().NoError(s.storage.SaveUser(s.ctx, s.bob))

	_, err := s.service.SendMessage(s.ctx, s.alice.ID, s.bob.ID, "hey", "")
	s.ErrorIs(err, model.ErrBlocked)

	// Blocking cuts both directions
	_, err = s.service.SendMessage(s.ctx, s.bob.ID, s.alice.ID, "hey", "")
	s.ErrorIs(err, model.ErrBlocked)
}

func (s *ChatSuite) TestHistoryChronologicalPaging() {
	for i := 0; i < 5; i++ {
		s.send(s.alice.ID, s.bob.ID, fmt.Sprintf("msg %d", i))
	}

	// First page holds the newest messages, oldest-first within the page
	page, total, err := s.service.History(s.ctx, s.bob.ID, s.alice.ID, 0, 2)
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(page, 2)
	s.Equal("msg 3", page[0].Content)
	s.Equal("msg 4", page[1].Content)

	page, _, err = s.service.History(s.ctx, s.bob.ID, s.alice.ID, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("msg 1", page[0].Content)
	s.Equal("msg 2", page[1].Content)
}

func (s *ChatSuite) TestMarkRead() {
	s.send(s.alice.ID, s.bob.ID, "one")
	s.send(s.alice.ID, s.bob.ID, "two")
	s.send(s.bob.ID, s.alice.ID, "reply")

	count, err := s.service.MarkRead(s.ctx, s.bob.ID, s.alice.ID)
	s.Require().NoError(err)
	s.Equal(2, count)

	// Alice's unread reply is untouched
	room := model.NewRoomID(s.alice.ID, s.bob.ID)
	unread, err := s.storage.UnreadCount(s.ctx, room, s.alice.ID)
	s.Require().NoError(err)
	s.Equal(1, unread)

	// Idempotent
	count, err = s.service.MarkRead(s.ctx, s.bob.ID, s.alice.ID)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *ChatSuite) TestDeleteMessage() {
	msg := s.send(s.alice.ID, s.bob.ID, "oops")

	// Only the sender can delete
	err := s.service.DeleteMessage(s.ctx, s.bob.ID, msg.ID)
	s.ErrorIs(err, model.ErrMessageNotFound)

	s.Require().NoError(s.service.DeleteMessage(s.ctx, s.alice.ID, msg.ID))

	_, total, err := s.service.History(s.ctx, s.alice.ID, s.bob.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal(0, total)

	// Deleting again fails
	err = s.service.DeleteMessage(s.ctx, s.alice.ID, msg.ID)
	s.ErrorIs(err, model.ErrMessageNotFound)
}

func (s *ChatSuite) TestConversations() {
	carol := &model.User{ID: "user-c", Username: "carol", Email: "carol@example.com"}
	s.Require().NoError(s.storage.SaveUser(s.ctx, carol))

	s.send(s.alice.ID, s.bob.ID, "to bob")
	s.send(carol.ID, s.alice.ID, "from carol")
	s.send(s.alice.ID, s.bob.ID, "to bob again")

	convs, err := s.service.Conversations(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Require().Len(convs, 2)

	// Bob's room is the most recently active
	s.Equal(model.NewRoomID(s.alice.ID, s.bob.ID), convs[0].Room)
	s.Equal("to bob again", convs[0].LastMessage.Content)
	s.Equal(0, convs[0].UnreadCount)

	s.Equal(model.NewRoomID(s.alice.ID, carol.ID), convs[1].Room)
	s.Equal(1, convs[1].UnreadCount)
}

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Store
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Wishlist: []model.GameID{"game-1"},
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(user.Username, retrieved.Username)
	s.Equal(user.Wishlist, retrieved.Wishlist)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByUsernameCaseInsensitive() {
	user := &model.User{ID: "user-1", Username: "Alice", Email: "alice@example.com"}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), retrieved.ID)
}

func (s *StorageSuite) TestSearchUsersExcludesSelf() {
	for i, name := range []string{"alice", "alicia"} {
		u := &model.User{
			ID:       model.UserID(fmt.Sprintf("user-%d", i)),
			Username: name,
			Email:    name + "@example.com",
		}
		s.Require().NoError(s.storage.SaveUser(s.ctx, u))
	}

	matches, err := s.storage.SearchUsers(s.ctx, "ali", "user-0", 10)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal("alicia", matches[0].Username)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGameBySlug() {
	game := &model.Game{
		ID:          "game-1",
		Title:       "Space Raiders",
		Slug:        "space-raiders",
		Price:       1999,
		IsPublished: true,
		CreatedAt:   time.Now(),
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGameBySlug(s.ctx, "space-raiders")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
}

func (s *StorageSuite) TestDeleteGameClearsIndexes() {
	game := &model.Game{ID: "game-1", Title: "Space Raiders", Slug: "space-raiders"}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.storage.GetGameBySlug(s.ctx, "space-raiders")
	s.ErrorIs(err, model.ErrGameNotFound)

	games, total, err := s.storage.ListGames(s.ctx, storage.GameFilter{})
	s.Require().NoError(err)
	s.Equal(0, total)
	s.Empty(games)
}

func (s *StorageSuite) TestListGamesSortsByNewest() {
	base := time.Now()
	for i := 0; i < 3; i++ {
		game := &model.Game{
			ID:          model.GameID(fmt.Sprintf("game-%d", i)),
			Title:       fmt.Sprintf("Game %d", i),
			Slug:        fmt.Sprintf("game-%d", i),
			IsPublished: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	}

	games, total, err := s.storage.ListGames(s.ctx, storage.GameFilter{PublishedOnly: true})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(games, 3)
	s.Equal(model.GameID("game-2"), games[0].ID)
}

// Purchase tests

func (s *StorageSuite) TestRecordPurchaseCommitsAllWrites() {
	buyer := &model.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Wishlist: []model.GameID{"game-2"},
	}
	s.Require().NoError(s.storage.SaveUser(s.ctx, buyer))

	purchase := &model.Purchase{
		ID:        "purchase-1",
		UserID:    "user-1",
		GameID:    "game-1",
		Amount:    999,
		Status:    model.PurchaseCompleted,
		CreatedAt: time.Now(),
	}
	entry := &model.LibraryEntry{UserID: "user-1", GameID: "game-1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Require().NoError(s.storage.RecordPurchase(s.ctx, purchase, entry, buyer))

	got, err := s.storage.GetCompletedPurchase(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)
	s.Equal(model.PurchaseID("purchase-1"), got.ID)

	_, err = s.storage.GetLibraryEntry(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)

	purchases, err := s.storage.ListUserPurchases(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(purchases, 1)
}

func (s *StorageSuite) TestGetCompletedPurchaseNotFound() {
	_, err := s.storage.GetCompletedPurchase(s.ctx, "user-1", "game-1")
	s.ErrorIs(err, model.ErrPurchaseNotFound)
}

// Library tests

func (s *StorageSuite) TestListLibrary() {
	for i := 0; i < 2; i++ {
		entry := &model.LibraryEntry{
			UserID:    "user-1",
			GameID:    model.GameID(fmt.Sprintf("game-%d", i)),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.storage.SaveLibraryEntry(s.ctx, entry))
	}

	entries, err := s.storage.ListLibrary(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.GameID("game-1"), entries[0].GameID)
}

// Chat tests

func (s *StorageSuite) message(id string, sender, receiver model.UserID, at time.Time) *model.ChatMessage {
	return &model.ChatMessage{
		ID:         model.MessageID(id),
		SenderID:   sender,
		ReceiverID: receiver,
		Room:       model.NewRoomID(sender, receiver),
		Content:    "hello",
		Type:       model.MessageText,
		CreatedAt:  at,
	}
}

func (s *StorageSuite) TestMessagesPreserveAppendOrder() {
	base := time.Now()
	for i := 0; i < 4; i++ {
		msg := s.message(fmt.Sprintf("msg-%d", i), "user-a", "user-b", base.Add(time.Duration(i)*time.Second))
		s.Require().NoError(s.storage.SaveMessage(s.ctx, msg))
	}

	room := model.NewRoomID("user-a", "user-b")
	msgs, total, err := s.storage.ListRoomMessages(s.ctx, room, 1, 2)
	s.Require().NoError(err)
	s.Equal(4, total)
	s.Require().Len(msgs, 2)
	s.Equal(model.MessageID("msg-2"), msgs[0].ID)
	s.Equal(model.MessageID("msg-1"), msgs[1].ID)
}

func (s *StorageSuite) TestResaveMessageDoesNotDuplicate() {
	msg := s.message("msg-1", "user-a", "user-b", time.Now())
	s.Require().NoError(s.storage.SaveMessage(s.ctx, msg))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, msg))

	_, total, err := s.storage.ListRoomMessages(s.ctx, msg.Room, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
}

func (s *StorageSuite) TestMarkRoomRead() {
	base := time.Now()
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-1", "user-a", "user-b", base)))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-2", "user-a", "user-b", base.Add(time.Second))))

	room := model.NewRoomID("user-a", "user-b")
	count, err := s.storage.MarkRoomRead(s.ctx, room, "user-b", base.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(2, count)

	unread, err := s.storage.UnreadCount(s.ctx, room, "user-b")
	s.Require().NoError(err)
	s.Equal(0, unread)
}

func (s *StorageSuite) TestRoomsForUser() {
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-1", "user-a", "user-b", time.Now())))

	rooms, err := s.storage.RoomsForUser(s.ctx, "user-b")
	s.Require().NoError(err)
	s.Require().Len(rooms, 1)
	s.Equal(model.NewRoomID("user-a", "user-b"), rooms[0])
}

// Friend request tests

func (s *StorageSuite) TestFindRequestBetweenIsUnordered() {
	req := &model.FriendRequest{
		ID:         "req-1",
		SenderID:   "user-a",
		ReceiverID: "user-b",
		Status:     model.RequestPending,
		CreatedAt:  time.Now(),
	}
	s.Require().NoError(s.storage.SaveFriendRequest(s.ctx, req))

	found, err := s.storage.FindRequestBetween(s.ctx, "user-b", "user-a")
	s.Require().NoError(err)
	s.Equal(req.ID, found.ID)
}

func (s *StorageSuite) TestDeleteFriendRequest() {
	req := &model.FriendRequest{ID: "req-1", SenderID: "user-a", ReceiverID: "user-b", Status: model.RequestPending}
	s.Require().NoError(s.storage.SaveFriendRequest(s.ctx, req))
	s.Require().NoError(s.storage.DeleteFriendRequest(s.ctx, "req-1"))

	_, err := s.storage.FindRequestBetween(s.ctx, "user-a", "user-b")
	s.ErrorIs(err, model.ErrRequestNotFound)

	reqs, err := s.storage.ListRequestsForUser(s.ctx, "user-b")
	s.Require().NoError(err)
	s.Empty(reqs)
}

// Notification tests

func (s *StorageSuite) TestNotificationsNewestFirstWithUnread() {
	for i := 0; i < 3; i++ {
		n := &model.Notification{
			ID:        model.NotificationID(fmt.Sprintf("notif-%d", i)),
			UserID:    "user-1",
			Kind:      model.NotifyFriendRequest,
			Read:      i == 0,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		s.Require().NoError(s.storage.SaveNotification(s.ctx, n))
	}

	items, total, unread, err := s.storage.ListNotifications(s.ctx, "user-1", 0, 10)
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Equal(2, unread)
	s.Equal(model.NotificationID("notif-2"), items[0].ID)
}

func (s *StorageSuite) TestMarkAllNotificationsRead() {
	n := &model.Notification{ID: "notif-1", UserID: "user-1", Kind: model.NotifyChat}
	s.Require().NoError(s.storage.SaveNotification(s.ctx, n))

	count, err := s.storage.MarkAllNotificationsRead(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(1, count)

	got, err := s.storage.GetNotification(s.ctx, "notif-1")
	s.Require().NoError(err)
	s.True(got.Read)
}

func (s *StorageSuite) TestDeleteNotification() {
	n := &model.Notification{ID: "notif-1", UserID: "user-1", Kind: model.NotifyChat}
	s.Require().NoError(s.storage.SaveNotification(s.ctx, n))
	s.Require().NoError(s.storage.DeleteNotification(s.ctx, "notif-1"))

	_, err := s.storage.GetNotification(s.ctx, "notif-1")
	s.ErrorIs(err, model.ErrNotificationNotFound)

	_, total, _, err := s.storage.ListNotifications(s.ctx, "user-1", 0, 10)
	s.Require().NoError(err)
	s.Equal(0, total)
}

// Review tests

func (s *StorageSuite) TestReviewUserGameIndex() {
	review := &model.Review{ID: "review-1", UserID: "user-1", GameID: "game-1", Rating: 5, CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SaveReview(s.ctx, review))

	found, err := s.storage.GetReviewByUserGame(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)
	s.Equal(review.ID, found.ID)

	s.Require().NoError(s.storage.DeleteReview(s.ctx, "review-1"))
	_, err = s.storage.GetReviewByUserGame(s.ctx, "user-1", "game-1")
	s.ErrorIs(err, model.ErrReviewNotFound)
}

func (s *StorageSuite) TestListGameReviewsPages() {
	for i := 0; i < 3; i++ {
		review := &model.Review{
			ID:        model.ReviewID(fmt.Sprintf("review-%d", i)),
			UserID:    model.UserID(fmt.Sprintf("user-%d", i)),
			GameID:    "game-1",
			Rating:    3,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		s.Require().NoError(s.storage.SaveReview(s.ctx, review))
	}

	reviews, total, err := s.storage.ListGameReviews(s.ctx, "game-1", 1, 1)
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(reviews, 1)
	s.Equal(model.ReviewID("review-1"), reviews[0].ID)
}

// Achievement tests

func (s *StorageSuite) TestAchievementUnlockRoundTrip() {
	a := &model.Achievement{ID: "ach-1", GameID: "game-1", Title: "First Blood", Points: 10}
	s.Require().NoError(s.storage.SaveAchievement(s.ctx, a))

	achievements, err := s.storage.ListGameAchievements(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Len(achievements, 1)

	ua := &model.UserAchievement{UserID: "user-1", AchievementID: "ach-1", GameID: "game-1", UnlockedAt: time.Now()}
	s.Require().NoError(s.storage.SaveUserAchievement(s.ctx, ua))

	got, err := s.storage.GetUserAchievement(s.ctx, "user-1", "ach-1")
	s.Require().NoError(err)
	s.Equal(model.GameID("game-1"), got.GameID)

	unlocks, err := s.storage.ListUserAchievements(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(unlocks, 1)
}

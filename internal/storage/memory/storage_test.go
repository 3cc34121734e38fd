package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	storage *Store
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(user.Username, retrieved.Username)
	s.Equal(user.Email, retrieved.Email)
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

func (s *StorageSuite) TestGetUserByEmail() {
	user := &model.User{ID: "user-1", Username: "alice", Email: "Alice@Example.com"}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	retrieved, err := s.storage.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), retrieved.ID)
}

func (s *StorageSuite) TestUsernameIndexFollowsRename() {
	user := &model.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	user.Username = "alicia"
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	_, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alicia")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), retrieved.ID)
}

func (s *StorageSuite) TestSearchUsers() {
	for i, name := range []string{"alice", "alicia", "bob"} {
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

func (s *StorageSuite) game(id, slug string) *model.Game {
	return &model.Game{
		ID:          model.GameID(id),
		Title:       slug,
		Slug:        slug,
		Price:       1999,
		Genres:      []string{"action"},
		IsPublished: true,
		CreatedAt:   time.Now(),
	}
}

func (s *StorageSuite) TestSaveAndGetGameBySlug() {
	game := s.game("game-1", "space-raiders")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGameBySlug(s.ctx, "space-raiders")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
}

func (s *StorageSuite) TestDeleteGameClearsSlugIndex() {
	game := s.game("game-1", "space-raiders")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.storage.GetGameBySlug(s.ctx, "space-raiders")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestListGamesFiltersAndPages() {
	for i := 0; i < 5; i++ {
		g := s.game(fmt.Sprintf("game-%d", i), fmt.Sprintf("game-%d", i))
		g.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		if i == 4 {
			g.IsPublished = false
		}
		s.Require().NoError(s.storage.SaveGame(s.ctx, g))
	}

	games, total, err := s.storage.ListGames(s.ctx, storage.GameFilter{
		PublishedOnly: true,
		Page:          1,
		PageSize:      3,
	})
	s.Require().NoError(err)
	s.Equal(4, total)
	s.Require().Len(games, 3)
	// Default sort is newest first
	s.Equal(model.GameID("game-3"), games[0].ID)
}

func (s *StorageSuite) TestListGamesByGenre() {
	action := s.game("game-1", "boom")
	rpg := s.game("game-2", "quest")
	rpg.Genres = []string{"rpg"}
	s.Require().NoError(s.storage.SaveGame(s.ctx, action))
	s.Require().NoError(s.storage.SaveGame(s.ctx, rpg))

	games, total, err := s.storage.ListGames(s.ctx, storage.GameFilter{Genre: "rpg"})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal(model.GameID("game-2"), games[0].ID)
}

// Purchase and library tests

func (s *StorageSuite) TestRecordPurchaseIsAtomic() {
	buyer := &model.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Wishlist: []model.GameID{"game-1", "game-2"},
	}
	s.Require().NoError(s.storage.SaveUser(s.ctx, buyer))

	buyer.RemoveFromWishlist("game-1")
	purchase := &model.Purchase{
		ID:        "purchase-1",
		UserID:    "user-1",
		GameID:    "game-1",
		Amount:    1999,
		Status:    model.PurchaseCompleted,
		CreatedAt: time.Now(),
	}
	entry := &model.LibraryEntry{UserID: "user-1", GameID: "game-1", CreatedAt: time.Now(), UpdatedAt: time.Now()}

	s.Require().NoError(s.storage.RecordPurchase(s.ctx, purchase, entry, buyer))

	got, err := s.storage.GetCompletedPurchase(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)
	s.Equal(purchase.ID, got.ID)

	_, err = s.storage.GetLibraryEntry(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)

	saved, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal([]model.GameID{"game-2"}, saved.Wishlist)
}

func (s *StorageSuite) TestRecordPurchaseKeepsExistingEntry() {
	buyer := &model.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}
	s.Require().NoError(s.storage.SaveUser(s.ctx, buyer))

	existing := &model.LibraryEntry{
		UserID:    "user-1",
		GameID:    "game-1",
		Playtime:  120,
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	s.Require().NoError(s.storage.SaveLibraryEntry(s.ctx, existing))

	purchase := &model.Purchase{ID: "purchase-1", UserID: "user-1", GameID: "game-1", Status: model.PurchaseCompleted}
	fresh := &model.LibraryEntry{UserID: "user-1", GameID: "game-1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Require().NoError(s.storage.RecordPurchase(s.ctx, purchase, fresh, buyer))

	entry, err := s.storage.GetLibraryEntry(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)
	s.Equal(120, entry.Playtime)
}

func (s *StorageSuite) TestGetCompletedPurchaseIgnoresPending() {
	purchase := &model.Purchase{
		ID:     "purchase-1",
		UserID: "user-1",
		GameID: "game-1",
		Status: model.PurchasePending,
	}
	s.Require().NoError(s.storage.SavePurchase(s.ctx, purchase))

	_, err := s.storage.GetCompletedPurchase(s.ctx, "user-1", "game-1")
	s.ErrorIs(err, model.ErrPurchaseNotFound)
}

func (s *StorageSuite) TestListLibrary() {
	for i := 0; i < 3; i++ {
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
	s.Require().Len(entries, 3)
	s.Equal(model.GameID("game-2"), entries[0].GameID)
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

func (s *StorageSuite) TestListRoomMessagesNewestFirst() {
	base := time.Now()
	for i := 0; i < 5; i++ {
		msg := s.message(fmt.Sprintf("msg-%d", i), "user-a", "user-b", base.Add(time.Duration(i)*time.Second))
		s.Require().NoError(s.storage.SaveMessage(s.ctx, msg))
	}

	room := model.NewRoomID("user-a", "user-b")
	msgs, total, err := s.storage.ListRoomMessages(s.ctx, room, 0, 3)
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(msgs, 3)
	s.Equal(model.MessageID("msg-4"), msgs[0].ID)
	s.Equal(model.MessageID("msg-2"), msgs[2].ID)
}

func (s *StorageSuite) TestListRoomMessagesSkipsDeleted() {
	msg := s.message("msg-1", "user-a", "user-b", time.Now())
	s.Require().NoError(s.storage.SaveMessage(s.ctx, msg))

	msg.IsDeleted = true
	s.Require().NoError(s.storage.SaveMessage(s.ctx, msg))

	msgs, total, err := s.storage.ListRoomMessages(s.ctx, msg.Room, 0, 10)
	s.Require().NoError(err)
	s.Equal(0, total)
	s.Empty(msgs)
}

func (s *StorageSuite) TestMarkRoomReadOnlyStampsReceiver() {
	base := time.Now()
	toB := s.message("msg-1", "user-a", "user-b", base)
	toA := s.message("msg-2", "user-b", "user-a", base.Add(time.Second))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, toB))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, toA))

	room := model.NewRoomID("user-a", "user-b")
	at := base.Add(time.Minute)
	count, err := s.storage.MarkRoomRead(s.ctx, room, "user-b", at)
	s.Require().NoError(err)
	s.Equal(1, count)

	unread, err := s.storage.UnreadCount(s.ctx, room, "user-b")
	s.Require().NoError(err)
	s.Equal(0, unread)

	unread, err = s.storage.UnreadCount(s.ctx, room, "user-a")
	s.Require().NoError(err)
	s.Equal(1, unread)
}

func (s *StorageSuite) TestRoomsForUser() {
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-1", "user-a", "user-b", time.Now())))
	s.Require().NoError(s.storage.SaveMessage(s.ctx, s.message("msg-2", "user-a", "user-c", time.Now())))

	rooms, err := s.storage.RoomsForUser(s.ctx, "user-a")
	s.Require().NoError(err)
	s.Len(rooms, 2)

	rooms, err = s.storage.RoomsForUser(s.ctx, "user-b")
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

func (s *StorageSuite) TestDeleteFriendRequestClearsPairIndex() {
	req := &model.FriendRequest{ID: "req-1", SenderID: "user-a", ReceiverID: "user-b", Status: model.RequestPending}
	s.Require().NoError(s.storage.SaveFriendRequest(s.ctx, req))
	s.Require().NoError(s.storage.DeleteFriendRequest(s.ctx, "req-1"))

	_, err := s.storage.FindRequestBetween(s.ctx, "user-a", "user-b")
	s.ErrorIs(err, model.ErrRequestNotFound)

	reqs, err := s.storage.ListRequestsForUser(s.ctx, "user-a")
	s.Require().NoError(err)
	s.Empty(reqs)
}

// Notification tests

func (s *StorageSuite) TestListNotificationsPagesNewestFirst() {
	for i := 0; i < 4; i++ {
		n := &model.Notification{
			ID:        model.NotificationID(fmt.Sprintf("notif-%d", i)),
			UserID:    "user-1",
			Kind:      model.NotifySystem,
			Title:     fmt.Sprintf("n%d", i),
			Read:      i < 2,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		s.Require().NoError(s.storage.SaveNotification(s.ctx, n))
	}

	items, total, unread, err := s.storage.ListNotifications(s.ctx, "user-1", 0, 2)
	s.Require().NoError(err)
	s.Equal(4, total)
	s.Equal(2, unread)
	s.Require().Len(items, 2)
	s.Equal(model.NotificationID("notif-3"), items[0].ID)
}

func (s *StorageSuite) TestMarkAllNotificationsRead() {
	for i := 0; i < 3; i++ {
		n := &model.Notification{
			ID:     model.NotificationID(fmt.Sprintf("notif-%d", i)),
			UserID: "user-1",
			Kind:   model.NotifyChat,
		}
		s.Require().NoError(s.storage.SaveNotification(s.ctx, n))
	}

	count, err := s.storage.MarkAllNotificationsRead(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(3, count)

	_, _, unread, err := s.storage.ListNotifications(s.ctx, "user-1", 0, 10)
	s.Require().NoError(err)
	s.Equal(0, unread)
}

// Review tests

func (s *StorageSuite) TestGetReviewByUserGame() {
	review := &model.Review{
		ID:        "review-1",
		UserID:    "user-1",
		GameID:    "game-1",
		Rating:    4,
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.storage.SaveReview(s.ctx, review))

	found, err := s.storage.GetReviewByUserGame(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)
	s.Equal(review.ID, found.ID)

	_, err = s.storage.GetReviewByUserGame(s.ctx, "user-1", "game-2")
	s.ErrorIs(err, model.ErrReviewNotFound)
}

func (s *StorageSuite) TestDeleteReviewClearsIndexes() {
	review := &model.Review{ID: "review-1", UserID: "user-1", GameID: "game-1", Rating: 4}
	s.Require().NoError(s.storage.SaveReview(s.ctx, review))
	s.Require().NoError(s.storage.DeleteReview(s.ctx, "review-1"))

	_, err := s.storage.GetReviewByUserGame(s.ctx, "user-1", "game-1")
	s.ErrorIs(err, model.ErrReviewNotFound)

	reviews, err := s.storage.ListAllGameReviews(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(reviews)
}

// Achievement tests

func (s *StorageSuite) TestUserAchievementUnlock() {
	a := &model.Achievement{ID: "ach-1", GameID: "game-1", Title: "First Blood", Points: 10}
	s.Require().NoError(s.storage.SaveAchievement(s.ctx, a))

	_, err := s.storage.GetUserAchievement(s.ctx, "user-1", "ach-1")
	s.ErrorIs(err, model.ErrAchievementNotFound)

	ua := &model.UserAchievement{
		UserID:        "user-1",
		AchievementID: "ach-1",
		GameID:        "game-1",
		UnlockedAt:    time.Now(),
	}
	s.Require().NoError(s.storage.SaveUserAchievement(s.ctx, ua))

	got, err := s.storage.GetUserAchievement(s.ctx, "user-1", "ach-1")
	s.Require().NoError(err)
	s.Equal(model.AchievementID("ach-1"), got.AchievementID)

	unlocks, err := s.storage.ListUserAchievements(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(unlocks, 1)
}

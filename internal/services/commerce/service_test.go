package commerce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jfmcewan/gamehub/internal/dependencies/mocks"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/notify"
	"github.com/jfmcewan/gamehub/internal/storage/memory"
	"github.com/jfmcewan/gamehub/internal/testutil"
)

type CommerceSuite struct {
	suite.Suite
	storage *memory.Store
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
	user    *model.User
	game    *model.Game
}

func TestCommerceSuite(t *testing.T) {
	suite.Run(t, new(CommerceSuite))
}

func (s *CommerceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()
	notifier := notify.New(s.storage, s.clock, nil, logger)
	s.service = New(s.storage, s.clock, notifier, logger)
	s.ctx = context.Background()

	s.user = &model.User{ID: "user-1", Username: "alice", Email: "alice@example.com", Role: model.RoleUser}
	s.Require().NoError(s.storage.SaveUser(s.ctx, s.user))

	s.game = &model.Game{
		ID:              "game-1",
		Title:           "Space Raiders",
		Slug:            "space-raiders",
		Price:           2000,
		DiscountPercent: 25,
		DownloadURL:     "https://cdn.example.com/space-raiders.zip",
		IsPublished:     true,
		CreatedAt:       s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.game))
}

func (s *CommerceSuite) TestPurchaseAppliesDiscount() {
	purchase, err := s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "pay_123")
	s.Require().NoError(err)
	// 2000 at 25% off
	s.Equal(1500, purchase.Amount)
	s.Equal(model.PurchaseCompleted, purchase.Status)
	s.Equal("pay_123", purchase.PaymentRef)

	_, err = s.storage.GetLibraryEntry(s.ctx, s.user.ID, s.game.ID)
	s.Require().NoError(err)
}

func (s *CommerceSuite) TestPurchaseDefaultsPaymentRef() {
	purchase, err := s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.Require().NoError(err)
	s.Equal(model.FreePaymentRef, purchase.PaymentRef)
}

func (s *CommerceSuite) TestFreePurchaseCountsDownload() {
	free := &model.Game{
		ID:          "game-free",
		Title:       "Idle Demo",
		Slug:        "idle-demo",
		Price:       0,
		IsPublished: true,
		CreatedAt:   s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, free))

	purchase, err := s.service.Purchase(s.ctx, s.user.ID, free.ID, "")
	s.Require().NoError(err)
	s.Equal(0, purchase.Amount)

	got, err := s.storage.GetGame(s.ctx, free.ID)
	s.Require().NoError(err)
	s.Equal(1, got.TotalDownloads)

	// Paid purchases don't touch the counter; only actual downloads do
	_, err = s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "pay_1")
	s.Require().NoError(err)
	paid, err := s.storage.GetGame(s.ctx, s.game.ID)
	s.Require().NoError(err)
	s.Equal(0, paid.TotalDownloads)
}

func (s *CommerceSuite) TestPurchaseRemovesFromWishlist() {
	s.user.Wishlist = []model.GameID{s.game.ID, "game-other"}
	s.Require().NoError(s.storage.SaveUser(s.ctx, s.user))

	_, err := s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.Require().NoError(err)

	user, err := s.storage.GetUser(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Equal([]model.GameID{"game-other"}, user.Wishlist)
}

func (s *CommerceSuite) TestPurchaseTwiceFails() {
	_, err := s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.Require().NoError(err)

	_, err = s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.ErrorIs(err, model.ErrAlreadyOwned)
}

func (s *CommerceSuite) TestConcurrentPurchasesYieldOneRecord() {
	const attempts = 8

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrAlreadyOwned)
		}
	}
	s.Equal(1, succeeded)

	purchases, err := s.storage.ListUserPurchases(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Len(purchases, 1)
}

func (s *CommerceSuite) TestPurchaseUnpublishedGame() {
	s.game.IsPublished = false
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.game))

	_, err := s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.ErrorIs(err, model.ErrGameUnlisted)
}

func (s *CommerceSuite) TestPurchaseCreatesNotification() {
	_, err := s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.Require().NoError(err)

	items, total, _, err := s.storage.ListNotifications(s.ctx, s.user.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal(model.NotifyPurchase, items[0].Kind)
}

func (s *CommerceSuite) TestDownloadRequiresOwnershipForPricedGame() {
	_, err := s.service.Download(s.ctx, s.user.ID, s.game.ID)
	s.ErrorIs(err, model.ErrNotOwned)

	_, err = s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.Require().NoError(err)

	url, err := s.service.Download(s.ctx, s.user.ID, s.game.ID)
	s.Require().NoError(err)
	s.Equal(s.game.DownloadURL, url)

	game, err := s.storage.GetGame(s.ctx, s.game.ID)
	s.Require().NoError(err)
	s.Equal(1, game.TotalDownloads)
}

func (s *CommerceSuite) TestDownloadFreeGameAddsLibraryEntry() {
	free := &model.Game{
		ID:          "game-2",
		Title:       "Freebie",
		Slug:        "freebie",
		Price:       0,
		DownloadURL: "https://cdn.example.com/freebie.zip",
		IsPublished: true,
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, free))

	_, err := s.service.Download(s.ctx, s.user.ID, free.ID)
	s.Require().NoError(err)

	entry, err := s.storage.GetLibraryEntry(s.ctx, s.user.ID, free.ID)
	s.Require().NoError(err)
	s.True(entry.Installed)

	// Second download counts but does not duplicate the entry
	_, err = s.service.Download(s.ctx, s.user.ID, free.ID)
	s.Require().NoError(err)

	game, err := s.storage.GetGame(s.ctx, free.ID)
	s.Require().NoError(err)
	s.Equal(2, game.TotalDownloads)

	entries, err := s.storage.ListLibrary(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *CommerceSuite) TestRecordPlaytime() {
	_, err := s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.Require().NoError(err)

	_, err = s.service.RecordPlaytime(s.ctx, s.user.ID, s.game.ID, 0)
	s.ErrorIs(err, model.ErrValidation)

	entry, err := s.service.RecordPlaytime(s.ctx, s.user.ID, s.game.ID, 45)
	s.Require().NoError(err)
	s.Equal(45, entry.Playtime)
	s.Require().NotNil(entry.LastPlayed)

	entry, err = s.service.RecordPlaytime(s.ctx, s.user.ID, s.game.ID, 15)
	s.Require().NoError(err)
	s.Equal(60, entry.Playtime)

	user, err := s.storage.GetUser(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Equal(60, user.TotalPlaytime)
}

func (s *CommerceSuite) TestSetFavorite() {
	_, err := s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.Require().NoError(err)

	entry, err := s.service.SetFavorite(s.ctx, s.user.ID, s.game.ID, true)
	s.Require().NoError(err)
	s.True(entry.IsFavorite)

	_, err = s.service.SetFavorite(s.ctx, s.user.ID, "ghost", true)
	s.ErrorIs(err, model.ErrEntryNotFound)
}

func (s *CommerceSuite) TestWishlistRoundTrip() {
	user, err := s.service.AddToWishlist(s.ctx, s.user.ID, s.game.ID)
	s.Require().NoError(err)
	s.True(user.HasWishlisted(s.game.ID))

	// Adding again is a no-op
	_, err = s.service.AddToWishlist(s.ctx, s.user.ID, s.game.ID)
	s.Require().NoError(err)

	game, err := s.storage.GetGame(s.ctx, s.game.ID)
	s.Require().NoError(err)
	s.Equal(1, game.TotalWishlists)

	games, err := s.service.Wishlist(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(s.game.ID, games[0].ID)

	user, err = s.service.RemoveFromWishlist(s.ctx, s.user.ID, s.game.ID)
	s.Require().NoError(err)
	s.False(user.HasWishlisted(s.game.ID))

	game, err = s.storage.GetGame(s.ctx, s.game.ID)
	s.Require().NoError(err)
	s.Equal(0, game.TotalWishlists)
}

func (s *CommerceSuite) TestWishlistOwnedGame() {
	_, err := s.service.Purchase(s.ctx, s.user.ID, s.game.ID, "")
	s.Require().NoError(err)

	_, err = s.service.AddToWishlist(s.ctx, s.user.ID, s.game.ID)
	s.ErrorIs(err, model.ErrAlreadyOwned)
}

package commerce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/notify"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// Service handles purchases, downloads, the wishlist and the library
type Service struct {
	storage  storage.Store
	clock    clock.Clock
	notifier *notify.Service
	logger   *slog.Logger

	// Serializes concurrent purchase attempts per (buyer, game) pair so
	// the ownership check and the commit cannot interleave.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a new commerce service
func New(store storage.Store, clk clock.Clock, notifier *notify.Service, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		clock:    clk,
		notifier: notifier,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Purchase buys a game for the user. The final price applies the
// listing's current discount. The purchase record, the library entry and
// the wishlist removal commit together; a duplicate attempt fails with
// ErrAlreadyOwned no matter how the attempts interleave.
func (s *Service) Purchase(ctx context.Context, userID model.UserID, gameID model.GameID, paymentRef string) (*model.Purchase, error) {
	unlock := s.lockPair(userID, gameID)
	defer unlock()

	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsPublished {
		return nil, model.ErrGameUnlisted
	}

	if _, err := s.storage.GetCompletedPurchase(ctx, userID, gameID); err == nil {
		return nil, model.ErrAlreadyOwned
	} else if !errors.Is(err, model.ErrPurchaseNotFound) {
		return nil, err
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	amount := game.FinalPrice()
	if paymentRef == "" {
		paymentRef = model.FreePaymentRef
	}

	now := s.clock.Now()
	purchase := &model.Purchase{
		ID:         model.PurchaseID(uuid.NewString()),
		UserID:     userID,
		GameID:     gameID,
		Amount:     amount,
		Currency:   "USD",
		PaymentRef: paymentRef,
		Status:     model.PurchaseCompleted,
		CreatedAt:  now,
	}
	entry := &model.LibraryEntry{
		UserID:    userID,
		GameID:    gameID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.RemoveFromWishlist(gameID)
	user.UpdatedAt = now

	if err := s.storage.RecordPurchase(ctx, purchase, entry, user); err != nil {
		return nil, err
	}

	// Claiming a free game counts as a download, matching the first-download
	// path for free games that never went through Purchase.
	if amount == 0 {
		game.TotalDownloads++
		if err := s.storage.SaveGame(ctx, game); err != nil {
			s.logger.Error("download count update failed", "game_id", gameID, "error", err)
		}
	}

	s.logger.Info("purchase completed", "user_id", userID, "game_id", gameID, "amount", amount)
	s.notifier.Notify(ctx, userID, model.NotifyPurchase,
		"Purchase complete",
		fmt.Sprintf("%s is now in your library", game.Title),
		map[string]string{"game_id": string(gameID)},
	)
	return purchase, nil
}

// Download hands out the download URL for a game the user may install.
// Priced games require a completed purchase; free games are added to the
// library on first download. Each call counts one download.
func (s *Service) Download(ctx context.Context, userID model.UserID, gameID model.GameID) (string, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return "", err
	}
	if !game.IsPublished {
		return "", model.ErrGameUnlisted
	}

	if game.Price > 0 {
		if _, err := s.storage.GetCompletedPurchase(ctx, userID, gameID); err != nil {
			if errors.Is(err, model.ErrPurchaseNotFound) {
				return "", model.ErrNotOwned
			}
			return "", err
		}
	}

	now := s.clock.Now()
	if _, err := s.storage.GetLibraryEntry(ctx, userID, gameID); err != nil {
		if !errors.Is(err, model.ErrEntryNotFound) {
			return "", err
		}
		entry := &model.LibraryEntry{
			UserID:    userID,
			GameID:    gameID,
			Installed: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.storage.SaveLibraryEntry(ctx, entry); err != nil {
			return "", err
		}
	}

	game.TotalDownloads++
	if err := s.storage.SaveGame(ctx, game); err != nil {
		return "", err
	}

	return game.DownloadURL, nil
}

// ListLibrary returns the user's library entries with their games
func (s *Service) ListLibrary(ctx context.Context, userID model.UserID) ([]*model.LibraryEntry, map[model.GameID]*model.Game, error) {
	entries, err := s.storage.ListLibrary(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	games := make(map[model.GameID]*model.Game, len(entries))
	for _, entry := range entries {
		game, err := s.storage.GetGame(ctx, entry.GameID)
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				continue // Listing was deleted; keep the entry out of the view
			}
			return nil, nil, err
		}
		games[entry.GameID] = game
	}
	return entries, games, nil
}

// RecordPlaytime adds played minutes to a library entry and the user's
// lifetime total
func (s *Service) RecordPlaytime(ctx context.Context, userID model.UserID, gameID model.GameID, minutes int) (*model.LibraryEntry, error) {
	if minutes <= 0 {
		return nil, model.ErrValidation
	}

	entry, err := s.storage.GetLibraryEntry(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	entry.Playtime += minutes
	entry.LastPlayed = &now
	entry.UpdatedAt = now
	if err := s.storage.SaveLibraryEntry(ctx, entry); err != nil {
		return nil, err
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.TotalPlaytime += minutes
	user.UpdatedAt = now
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	return entry, nil
}

// SetFavorite flags or unflags a library entry as a favorite
func (s *Service) SetFavorite(ctx context.Context, userID model.UserID, gameID model.GameID, favorite bool) (*model.LibraryEntry, error) {
	entry, err := s.storage.GetLibraryEntry(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	entry.IsFavorite = favorite
	entry.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveLibraryEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AddToWishlist puts a game on the user's wishlist
func (s *Service) AddToWishlist(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.User, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsPublished {
		return nil, model.ErrGameUnlisted
	}

	if _, err := s.storage.GetCompletedPurchase(ctx, userID, gameID); err == nil {
		return nil, model.ErrAlreadyOwned
	} else if !errors.Is(err, model.ErrPurchaseNotFound) {
		return nil, err
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasWishlisted(gameID) {
		return user, nil
	}

	user.Wishlist = append(user.Wishlist, gameID)
	user.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	game.TotalWishlists++
	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return user, nil
}

// RemoveFromWishlist takes a game off the user's wishlist
func (s *Service) RemoveFromWishlist(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.User, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.RemoveFromWishlist(gameID) {
		return user, nil
	}

	user.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if game, err := s.storage.GetGame(ctx, gameID); err == nil && game.TotalWishlists > 0 {
		game.TotalWishlists--
		if err := s.storage.SaveGame(ctx, game); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Wishlist returns the games on the user's wishlist, skipping any that
// have been delisted
func (s *Service) Wishlist(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(user.Wishlist))
	for _, gameID := range user.Wishlist {
		game, err := s.storage.GetGame(ctx, gameID)
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) {
				continue
			}
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

// ListPurchases returns the user's purchase history, newest first
func (s *Service) ListPurchases(ctx context.Context, userID model.UserID) ([]*model.Purchase, error) {
	return s.storage.ListUserPurchases(ctx, userID)
}

func (s *Service) lockPair(userID model.UserID, gameID model.GameID) func() {
	key := string(userID) + "|" + string(gameID)

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

package achievement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/notify"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// xpPerLevel is how much achievement XP advances one level
const xpPerLevel = 100

// AchievementInput carries the editable fields of an achievement
type AchievementInput struct {
	Title       string
	Description string
	Icon        string
	Points      int
	Rarity      model.AchievementRarity
	IsHidden    bool
}

// Service manages per-game achievements and player unlocks
type Service struct {
	storage  storage.Store
	clock    clock.Clock
	notifier *notify.Service
	logger   *slog.Logger
}

// New creates a new achievement service
func New(store storage.Store, clk clock.Clock, notifier *notify.Service, logger *slog.Logger) *Service {
	return &Service{storage: store, clock: clk, notifier: notifier, logger: logger}
}

// CreateAchievement defines an achievement for a game. Only the game's
// developer or an admin may do so.
func (s *Service) CreateAchievement(ctx context.Context, actor *model.User, gameID model.GameID, input AchievementInput) (*model.Achievement, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.DeveloperID != actor.ID && actor.Role != model.RoleAdmin {
		return nil, model.ErrNotGameOwner
	}
	if strings.TrimSpace(input.Title) == "" || input.Points < 0 {
		return nil, model.ErrValidation
	}

	rarity := input.Rarity
	if rarity == "" {
		rarity = model.RarityCommon
	}

	a := &model.Achievement{
		ID:          model.AchievementID(uuid.NewString()),
		GameID:      gameID,
		Title:       input.Title,
		Description: input.Description,
		Icon:        input.Icon,
		Points:      input.Points,
		Rarity:      rarity,
		IsHidden:    input.IsHidden,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SaveAchievement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListGameAchievements returns a game's achievements. Hidden ones are
// included only for viewers who already unlocked them, and always for
// the game's developer and admins.
func (s *Service) ListGameAchievements(ctx context.Context, viewer *model.User, gameID model.GameID) ([]*model.Achievement, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	all, err := s.storage.ListGameAchievements(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if viewer != nil && (viewer.Role == model.RoleAdmin || game.DeveloperID == viewer.ID) {
		return all, nil
	}

	var visible []*model.Achievement
	for _, a := range all {
		if !a.IsHidden {
			visible = append(visible, a)
			continue
		}
		if viewer == nil {
			continue
		}
		if _, err := s.storage.GetUserAchievement(ctx, viewer.ID, a.ID); err == nil {
			visible = append(visible, a)
		} else if !errors.Is(err, model.ErrAchievementNotFound) {
			return nil, err
		}
	}
	return visible, nil
}

// Unlock records an achievement for a player who owns the game, awards
// its XP and notifies them. Unlocking twice fails.
func (s *Service) Unlock(ctx context.Context, userID model.UserID, achievementID model.AchievementID) (*model.UserAchievement, error) {
	a, err := s.storage.GetAchievement(ctx, achievementID)
	if err != nil {
		return nil, err
	}

	if _, err := s.storage.GetLibraryEntry(ctx, userID, a.GameID); err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			return nil, model.ErrNotOwned
		}
		return nil, err
	}

	if _, err := s.storage.GetUserAchievement(ctx, userID, achievementID); err == nil {
		return nil, model.ErrAlreadyUnlocked
	} else if !errors.Is(err, model.ErrAchievementNotFound) {
		return nil, err
	}

	ua := &model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		GameID:        a.GameID,
		UnlockedAt:    s.clock.Now(),
	}
	if err := s.storage.SaveUserAchievement(ctx, ua); err != nil {
		return nil, err
	}

	if err := s.awardXP(ctx, userID, a.Points); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, userID, model.NotifyAchievement,
		"Achievement unlocked",
		fmt.Sprintf("%s (+%d XP)", a.Title, a.Points),
		map[string]string{"achievement_id": string(achievementID), "game_id": string(a.GameID)},
	)
	return ua, nil
}

// UserAchievements returns every unlock for a player, newest first
func (s *Service) UserAchievements(ctx context.Context, userID model.UserID) ([]*model.UserAchievement, error) {
	return s.storage.ListUserAchievements(ctx, userID)
}

func (s *Service) awardXP(ctx context.Context, userID model.UserID, points int) error {
	if points == 0 {
		return nil
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	user.XP += points
	user.Level = user.XP/xpPerLevel + 1
	user.UpdatedAt = s.clock.Now()
	return s.storage.SaveUser(ctx, user)
}

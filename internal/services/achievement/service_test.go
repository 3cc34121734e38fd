package achievement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jfmcewan/gamehub/internal/dependencies/mocks"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/notify"
	"github.com/jfmcewan/gamehub/internal/storage/memory"
	"github.com/jfmcewan/gamehub/internal/testutil"
)

type AchievementSuite struct {
	suite.Suite
	storage   *memory.Store
	clock     *mocks.MockClock
	service   *Service
	ctx       context.Context
	developer *model.User
	player    *model.User
	game      *model.Game
}

func TestAchievementSuite(t *testing.T) {
	suite.Run(t, new(AchievementSuite))
}

func (s *AchievementSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()
	s.service = New(s.storage, s.clock, notify.New(s.storage, s.clock, nil, logger), logger)
	s.ctx = context.Background()

	s.developer = &model.User{ID: "dev-1", Username: "dev", Email: "dev@example.com", Role: model.RoleDeveloper}
	s.player = &model.User{ID: "player-1", Username: "player", Email: "player@example.com", Role: model.RoleUser, Level: 1}
	for _, u := range []*model.User{s.developer, s.player} {
		s.Require().NoError(s.storage.SaveUser(s.ctx, u))
	}

	s.game = &model.Game{ID: "game-1", Title: "Space Raiders", Slug: "space-raiders", DeveloperID: s.developer.ID, IsPublished: true}
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.game))
}

func (s *AchievementSuite) define(title string, points int, hidden bool) *model.Achievement {
	a, err := s.service.CreateAchievement(s.ctx, s.developer, s.game.ID, AchievementInput{
		Title:    title,
		Points:   points,
		IsHidden: hidden,
	})
	s.Require().NoError(err)
	return a
}

func (s *AchievementSuite) grantGame() {
	entry := &model.LibraryEntry{UserID: s.player.ID, GameID: s.game.ID, CreatedAt: s.clock.Now(), UpdatedAt: s.clock.Now()}
	s.Require().NoError(s.storage.SaveLibraryEntry(s.ctx, entry))
}

func (s *AchievementSuite) TestCreateRequiresGameOwnership() {
	_, err := s.service.CreateAchievement(s.ctx, s.player, s.game.ID, AchievementInput{Title: "Nope"})
	s.ErrorIs(err, model.ErrNotGameOwner)

	a := s.define("First Blood", 10, false)
	s.Equal(model.RarityCommon, a.Rarity)
}

func (s *AchievementSuite) TestCreateValidation() {
	_, err := s.service.CreateAchievement(s.ctx, s.developer, s.game.ID, AchievementInput{Title: " "})
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.CreateAchievement(s.ctx, s.developer, s.game.ID, AchievementInput{Title: "X", Points: -5})
	s.ErrorIs(err, model.ErrValidation)
}

func (s *AchievementSuite) TestUnlockRequiresLibraryEntry() {
	a := s.define("First Blood", 10, false)

	_, err := s.service.Unlock(s.ctx, s.player.ID, a.ID)
	s.ErrorIs(err, model.ErrNotOwned)
}

func (s *AchievementSuite) TestUnlockOnceAwardsXP() {
	a := s.define("First Blood", 150, false)
	s.grantGame()

	ua, err := s.service.Unlock(s.ctx, s.player.ID, a.ID)
	s.Require().NoError(err)
	s.Equal(s.game.ID, ua.GameID)

	_, err = s.service.Unlock(s.ctx, s.player.ID, a.ID)
	s.ErrorIs(err, model.ErrAlreadyUnlocked)

	user, err := s.storage.GetUser(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Equal(150, user.XP)
	s.Equal(2, user.Level)

	items, total, _, err := s.storage.ListNotifications(s.ctx, s.player.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal(model.NotifyAchievement, items[0].Kind)
}

func (s *AchievementSuite) TestHiddenAchievementsGatedByUnlock() {
	s.define("Visible", 10, false)
	hidden := s.define("Secret", 50, true)
	s.grantGame()

	visible, err := s.service.ListGameAchievements(s.ctx, s.player, s.game.ID)
	s.Require().NoError(err)
	s.Len(visible, 1)

	// Anonymous viewers never see hidden achievements
	visible, err = s.service.ListGameAchievements(s.ctx, nil, s.game.ID)
	s.Require().NoError(err)
	s.Len(visible, 1)

	// The developer sees everything
	visible, err = s.service.ListGameAchievements(s.ctx, s.developer, s.game.ID)
	s.Require().NoError(err)
	s.Len(visible, 2)

	_, err = s.service.Unlock(s.ctx, s.player.ID, hidden.ID)
	s.Require().NoError(err)

	visible, err = s.service.ListGameAchievements(s.ctx, s.player, s.game.ID)
	s.Require().NoError(err)
	s.Len(visible, 2)
}

func (s *AchievementSuite) TestUserAchievements() {
	a := s.define("First Blood", 10, false)
	s.grantGame()

	_, err := s.service.Unlock(s.ctx, s.player.ID, a.ID)
	s.Require().NoError(err)

	unlocks, err := s.service.UserAchievements(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Require().Len(unlocks, 1)
	s.Equal(a.ID, unlocks[0].AchievementID)
}

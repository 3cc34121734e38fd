package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jfmcewan/gamehub/internal/dependencies/mocks"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage"
	"github.com/jfmcewan/gamehub/internal/storage/memory"
	"github.com/jfmcewan/gamehub/internal/testutil"
)

type CatalogSuite struct {
	suite.Suite
	storage   *memory.Store
	clock     *mocks.MockClock
	service   *Service
	ctx       context.Context
	developer *model.User
	admin     *model.User
	player    *model.User
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	s.developer = &model.User{ID: "dev-1", Username: "dev", Email: "dev@example.com", Role: model.RoleDeveloper}
	s.admin = &model.User{ID: "admin-1", Username: "admin", Email: "admin@example.com", Role: model.RoleAdmin}
	s.player = &model.User{ID: "player-1", Username: "player", Email: "player@example.com", Role: model.RoleUser}
	for _, u := range []*model.User{s.developer, s.admin, s.player} {
		s.Require().NoError(s.storage.SaveUser(s.ctx, u))
	}
}

func (s *CatalogSuite) create(title string) *model.Game {
	game, err := s.service.CreateGame(s.ctx, s.developer.ID, GameInput{
		Title:  title,
		Price:  1999,
		Genres: []string{"action"},
	})
	s.Require().NoError(err)
	return game
}

func (s *CatalogSuite) TestSlugify() {
	s.Equal("space-raiders-2-deluxe", Slugify("Space Raiders 2: Deluxe!"))
	s.Equal("cafe", Slugify("  Cafe  "))
	s.Equal("", Slugify("!!!"))
}

func (s *CatalogSuite) TestCreateGameSlugCollision() {
	first := s.create("Space Raiders")
	s.Equal("space-raiders", first.Slug)

	// A second listing whose title slugs identically is rejected
	_, err := s.service.CreateGame(s.ctx, s.developer.ID, GameInput{Title: "Space Raiders"})
	s.ErrorIs(err, model.ErrSlugExists)

	_, err = s.service.CreateGame(s.ctx, s.developer.ID, GameInput{Title: "SPACE: raiders?"})
	s.ErrorIs(err, model.ErrSlugExists)
}

func (s *CatalogSuite) TestUpdateGameSlugCollision() {
	s.create("Space Raiders")
	other := s.create("Moon Miners")

	_, err := s.service.UpdateGame(s.ctx, s.developer, other.ID, GameInput{Title: "Space Raiders", Price: 100})
	s.ErrorIs(err, model.ErrSlugExists)

	// Keeping the same title does not collide with itself
	updated, err := s.service.UpdateGame(s.ctx, s.developer, other.ID, GameInput{Title: "Moon Miners", Price: 100})
	s.Require().NoError(err)
	s.Equal("moon-miners", updated.Slug)
}

func (s *CatalogSuite) TestCreateGameValidation() {
	_, err := s.service.CreateGame(s.ctx, s.developer.ID, GameInput{Title: "  "})
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.CreateGame(s.ctx, s.developer.ID, GameInput{Title: "X", DiscountPercent: 101})
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.CreateGame(s.ctx, s.developer.ID, GameInput{Title: "X", Genres: []string{"polka"}})
	s.ErrorIs(err, model.ErrInvalidGenre)
}

func (s *CatalogSuite) TestUpdateGameOwnership() {
	game := s.create("Space Raiders")

	_, err := s.service.UpdateGame(s.ctx, s.player, game.ID, GameInput{Title: "Hijacked"})
	s.ErrorIs(err, model.ErrNotGameOwner)

	updated, err := s.service.UpdateGame(s.ctx, s.developer, game.ID, GameInput{Title: "Space Raiders II", Price: 2999})
	s.Require().NoError(err)
	s.Equal("Space Raiders II", updated.Title)
	s.Equal("space-raiders-ii", updated.Slug)
	s.Equal(2999, updated.Price)

	// Admins can edit anyone's listing
	_, err = s.service.UpdateGame(s.ctx, s.admin, game.ID, GameInput{Title: "Space Raiders II", Price: 999})
	s.Require().NoError(err)
}

func (s *CatalogSuite) TestUnpublishedVisibility() {
	game := s.create("Hidden Gem")

	_, err := s.service.GetGame(s.ctx, s.player, game.ID)
	s.ErrorIs(err, model.ErrGameUnlisted)

	_, err = s.service.GetGame(s.ctx, nil, game.ID)
	s.ErrorIs(err, model.ErrGameUnlisted)

	got, err := s.service.GetGame(s.ctx, s.developer, game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, got.ID)

	_, err = s.service.SetPublished(s.ctx, s.developer, game.ID, true)
	s.Require().NoError(err)

	got, err = s.service.GetGameBySlug(s.ctx, s.player, "hidden-gem")
	s.Require().NoError(err)
	s.Equal(game.ID, got.ID)
}

func (s *CatalogSuite) TestSetFeaturedAdminOnly() {
	game := s.create("Space Raiders")

	_, err := s.service.SetFeatured(s.ctx, s.developer, game.ID, true)
	s.ErrorIs(err, model.ErrNotGameOwner)

	featured, err := s.service.SetFeatured(s.ctx, s.admin, game.ID, true)
	s.Require().NoError(err)
	s.True(featured.IsFeatured)
}

func (s *CatalogSuite) TestListGamesRejectsUnknownGenre() {
	_, _, err := s.service.ListGames(s.ctx, storage.GameFilter{Genre: "polka"})
	s.ErrorIs(err, model.ErrInvalidGenre)
}

func (s *CatalogSuite) TestTrendingRanksByDownloads() {
	popular := s.create("Popular")
	quiet := s.create("Quiet")
	for _, g := range []*model.Game{popular, quiet} {
		_, err := s.service.SetPublished(s.ctx, s.developer, g.ID, true)
		s.Require().NoError(err)
	}

	stored, err := s.storage.GetGame(s.ctx, popular.ID)
	s.Require().NoError(err)
	stored.TotalDownloads = 500
	s.Require().NoError(s.storage.SaveGame(s.ctx, stored))

	trending, err := s.service.TrendingGames(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(trending, 2)
	s.Equal(popular.ID, trending[0].ID)
}

func (s *CatalogSuite) TestGenreCounts() {
	game := s.create("Space Raiders")
	_, err := s.service.SetPublished(s.ctx, s.developer, game.ID, true)
	s.Require().NoError(err)

	counts, err := s.service.GenreCounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts["action"])
	s.Equal(0, counts["rpg"])
}

func (s *CatalogSuite) TestListDeveloperGamesIncludesUnpublished() {
	s.create("Draft")
	published := s.create("Live")
	_, err := s.service.SetPublished(s.ctx, s.developer, published.ID, true)
	s.Require().NoError(err)

	games, err := s.service.ListDeveloperGames(s.ctx, s.developer.ID)
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *CatalogSuite) TestDeleteGame() {
	game := s.create("Doomed")

	err := s.service.DeleteGame(s.ctx, s.player, game.ID)
	s.ErrorIs(err, model.ErrNotGameOwner)

	s.Require().NoError(s.service.DeleteGame(s.ctx, s.developer, game.ID))
	_, err = s.storage.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

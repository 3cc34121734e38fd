package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage/memory"
	"github.com/jfmcewan/gamehub/internal/testutil"
)

type AssistantSuite struct {
	suite.Suite
	storage *memory.Store
	service *Service
	ctx     context.Context
}

func TestAssistantSuite(t *testing.T) {
	suite.Run(t, new(AssistantSuite))
}

func (s *AssistantSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *AssistantSuite) addGame(id, title, genre string, price, discount int, rating float64, downloads int) *model.Game {
	game := &model.Game{
		ID:              model.GameID(id),
		Title:           title,
		Slug:            id,
		Price:           price,
		DiscountPercent: discount,
		Genres:          []string{genre},
		AverageRating:   rating,
		TotalDownloads:  downloads,
		IsPublished:     true,
		CreatedAt:       time.Now(),
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	return game
}

func (s *AssistantSuite) own(user model.UserID, game model.GameID) {
	entry := &model.LibraryEntry{UserID: user, GameID: game, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Require().NoError(s.storage.SaveLibraryEntry(s.ctx, entry))
}

func (s *AssistantSuite) TestRecommendPrefersLibraryGenres() {
	owned := s.addGame("game-1", "Owned FPS", "fps", 1000, 0, 4.0, 10)
	match := s.addGame("game-2", "Another FPS", "fps", 1000, 0, 3.0, 5)
	other := s.addGame("game-3", "A Puzzle", "puzzle", 1000, 0, 5.0, 100)
	s.own("user-1", owned.ID)

	recs, err := s.service.Recommend(s.ctx, "user-1", 10)
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Equal(match.ID, recs[0].ID)
	s.Equal(other.ID, recs[1].ID)
}

func (s *AssistantSuite) TestRecommendExcludesOwned() {
	game := s.addGame("game-1", "Solo", "rpg", 1000, 0, 4.0, 10)
	s.own("user-1", game.ID)

	recs, err := s.service.Recommend(s.ctx, "user-1", 10)
	s.Require().NoError(err)
	s.Empty(recs)
}

func (s *AssistantSuite) TestChatGreeting() {
	reply, err := s.service.Chat(s.ctx, "user-1", "hello there")
	s.Require().NoError(err)
	s.Equal("greeting", reply.Intent)
}

func (s *AssistantSuite) TestChatEmptyMessage() {
	_, err := s.service.Chat(s.ctx, "user-1", "   ")
	s.ErrorIs(err, model.ErrValidation)
}

func (s *AssistantSuite) TestChatGenreRecommendation() {
	s.addGame("game-1", "Dragon Quest Clone", "rpg", 1000, 0, 4.5, 10)

	reply, err := s.service.Chat(s.ctx, "user-1", "recommend me an rpg")
	s.Require().NoError(err)
	s.Equal("genre", reply.Intent)
	s.Require().Len(reply.Suggestions, 1)
	s.Equal("Dragon Quest Clone", reply.Suggestions[0].Title)
}

func (s *AssistantSuite) TestChatDeals() {
	s.addGame("game-1", "Full Price", "action", 1000, 0, 4.0, 10)
	s.addGame("game-2", "Half Off", "action", 1000, 50, 4.0, 10)
	s.addGame("game-3", "Small Discount", "action", 1000, 10, 4.0, 10)

	reply, err := s.service.Chat(s.ctx, "user-1", "any deals today?")
	s.Require().NoError(err)
	s.Equal("deals", reply.Intent)
	s.Require().Len(reply.Suggestions, 2)
	s.Equal("Half Off", reply.Suggestions[0].Title)
}

func (s *AssistantSuite) TestChatDealsEmpty() {
	reply, err := s.service.Chat(s.ctx, "user-1", "anything on sale?")
	s.Require().NoError(err)
	s.Equal("deals", reply.Intent)
	s.Empty(reply.Suggestions)
}

func (s *AssistantSuite) TestChatTrending() {
	s.addGame("game-1", "Quiet", "action", 1000, 0, 4.0, 1)
	s.addGame("game-2", "Hit", "action", 1000, 0, 4.0, 1000)

	reply, err := s.service.Chat(s.ctx, "user-1", "what's trending?")
	s.Require().NoError(err)
	s.Equal("trending", reply.Intent)
	s.Require().NotEmpty(reply.Suggestions)
	s.Equal("Hit", reply.Suggestions[0].Title)
}

func (s *AssistantSuite) TestChatFreeGames() {
	s.addGame("game-1", "Paid", "action", 1000, 0, 4.0, 10)
	s.addGame("game-2", "Gratis", "action", 0, 0, 4.0, 10)

	reply, err := s.service.Chat(s.ctx, "user-1", "show me free games")
	s.Require().NoError(err)
	s.Equal("free", reply.Intent)
	s.Require().Len(reply.Suggestions, 1)
	s.Equal("Gratis", reply.Suggestions[0].Title)
}

func (s *AssistantSuite) TestChatFallback() {
	reply, err := s.service.Chat(s.ctx, "user-1", "what is the meaning of life")
	s.Require().NoError(err)
	s.Equal("fallback", reply.Intent)
}

func (s *AssistantSuite) TestChatHelp() {
	reply, err := s.service.Chat(s.ctx, "user-1", "help")
	s.Require().NoError(err)
	s.Equal("help", reply.Intent)
}

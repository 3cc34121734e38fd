package catalog

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// GameInput carries the editable fields of a game listing
type GameInput struct {
	Title            string
	Description      string
	ShortDescription string
	Price            int
	DiscountPercent  int
	Genres           []string
	Tags             []string
	Publisher        string
	CoverImage       string
	Screenshots      []string
	TrailerURL       string
	DownloadURL      string
	FileSize         string
	CurrentVersion   string
	Platforms        []string
}

// Service manages the game catalog
type Service struct {
	storage storage.Store
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new catalog service
func New(store storage.Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{storage: store, clock: clk, logger: logger}
}

// CreateGame registers a new listing owned by the developer
func (s *Service) CreateGame(ctx context.Context, developerID model.UserID, input GameInput) (*model.Game, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	slug, err := s.slugFor(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	game := &model.Game{
		ID:               model.GameID(uuid.NewString()),
		Title:            input.Title,
		Slug:             slug,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Price:            input.Price,
		DiscountPercent:  input.DiscountPercent,
		Genres:           input.Genres,
		Tags:             input.Tags,
		DeveloperID:      developerID,
		Publisher:        input.Publisher,
		CoverImage:       input.CoverImage,
		Screenshots:      input.Screenshots,
		TrailerURL:       input.TrailerURL,
		DownloadURL:      input.DownloadURL,
		FileSize:         input.FileSize,
		CurrentVersion:   input.CurrentVersion,
		Platforms:        input.Platforms,
		ReleaseDate:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created", "game_id", game.ID, "slug", game.Slug, "developer_id", developerID)
	return game, nil
}

// UpdateGame applies edits from the owning developer or an admin
func (s *Service) UpdateGame(ctx context.Context, actor *model.User, gameID model.GameID, input GameInput) (*model.Game, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, game) {
		return nil, model.ErrNotGameOwner
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Title != game.Title {
		slug, err := s.slugFor(ctx, input.Title)
		if err != nil {
			return nil, err
		}
		game.Slug = slug
	}

	game.Title = input.Title
	game.Description = input.Description
	game.ShortDescription = input.ShortDescription
	game.Price = input.Price
	game.DiscountPercent = input.DiscountPercent
	game.Genres = input.Genres
	game.Tags = input.Tags
	game.Publisher = input.Publisher
	game.CoverImage = input.CoverImage
	game.Screenshots = input.Screenshots
	game.TrailerURL = input.TrailerURL
	game.DownloadURL = input.DownloadURL
	game.FileSize = input.FileSize
	game.CurrentVersion = input.CurrentVersion
	game.Platforms = input.Platforms
	game.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// SetPublished toggles listing visibility
func (s *Service) SetPublished(ctx context.Context, actor *model.User, gameID model.GameID, published bool) (*model.Game, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, game) {
		return nil, model.ErrNotGameOwner
	}

	game.IsPublished = published
	if published {
		game.ReleaseDate = s.clock.Now()
	}
	game.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// SetFeatured marks a listing featured. Admin only.
func (s *Service) SetFeatured(ctx context.Context, actor *model.User, gameID model.GameID, featured bool) (*model.Game, error) {
	if actor.Role != model.RoleAdmin {
		return nil, model.ErrNotGameOwner
	}
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	game.IsFeatured = featured
	game.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// DeleteGame removes a listing
func (s *Service) DeleteGame(ctx context.Context, actor *model.User, gameID model.GameID) error {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if !canManage(actor, game) {
		return model.ErrNotGameOwner
	}

	s.logger.Info("game deleted", "game_id", gameID, "actor_id", actor.ID)
	return s.storage.DeleteGame(ctx, gameID)
}

// GetGame fetches one listing. Unpublished listings are only visible to
// their developer and admins.
func (s *Service) GetGame(ctx context.Context, viewer *model.User, gameID model.GameID) (*model.Game, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return s.gateVisibility(viewer, game)
}

// GetGameBySlug looks a listing up by its URL slug
func (s *Service) GetGameBySlug(ctx context.Context, viewer *model.User, slug string) (*model.Game, error) {
	game, err := s.storage.GetGameBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.gateVisibility(viewer, game)
}

// ListGames returns a filtered, sorted page of published listings
func (s *Service) ListGames(ctx context.Context, filter storage.GameFilter) ([]*model.Game, int, error) {
	filter.PublishedOnly = true
	if filter.Genre != "" && !model.ValidGenre(filter.Genre) {
		return nil, 0, model.ErrInvalidGenre
	}
	return s.storage.ListGames(ctx, filter)
}

// ListDeveloperGames returns all listings owned by a developer,
// published or not.
func (s *Service) ListDeveloperGames(ctx context.Context, developerID model.UserID) ([]*model.Game, error) {
	games, _, err := s.storage.ListGames(ctx, storage.GameFilter{})
	if err != nil {
		return nil, err
	}

	var owned []*model.Game
	for _, g := range games {
		if g.DeveloperID == developerID {
			owned = append(owned, g)
		}
	}
	return owned, nil
}

// FeaturedGames returns the published featured listings
func (s *Service) FeaturedGames(ctx context.Context, limit int) ([]*model.Game, error) {
	games, _, err := s.storage.ListGames(ctx, storage.GameFilter{
		PublishedOnly: true,
		FeaturedOnly:  true,
		Sort:          "newest",
		Page:          1,
		PageSize:      limit,
	})
	return games, err
}

// TrendingGames returns published listings ranked by downloads
func (s *Service) TrendingGames(ctx context.Context, limit int) ([]*model.Game, error) {
	games, _, err := s.storage.ListGames(ctx, storage.GameFilter{
		PublishedOnly: true,
		Sort:          "downloads",
		Page:          1,
		PageSize:      limit,
	})
	return games, err
}

// GenreCounts returns how many published listings carry each genre
func (s *Service) GenreCounts(ctx context.Context) (map[string]int, error) {
	games, _, err := s.storage.ListGames(ctx, storage.GameFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, genre := range model.Genres {
		counts[genre] = 0
	}
	for _, g := range games {
		for _, genre := range g.Genres {
			counts[genre]++
		}
	}
	return counts, nil
}

func (s *Service) gateVisibility(viewer *model.User, game *model.Game) (*model.Game, error) {
	if game.IsPublished {
		return game, nil
	}
	if viewer != nil && canManage(viewer, game) {
		return game, nil
	}
	return nil, model.ErrGameUnlisted
}

// slugFor derives the listing slug from a title. A title whose slug is
// already taken is a conflict; developers retitle rather than getting a
// silently suffixed URL.
func (s *Service) slugFor(ctx context.Context, title string) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		slug = "game"
	}

	_, err := s.storage.GetGameBySlug(ctx, slug)
	if errors.Is(err, model.ErrGameNotFound) {
		return slug, nil
	}
	if err != nil {
		return "", err
	}
	return "", model.ErrSlugExists
}

func canManage(actor *model.User, game *model.Game) bool {
	return actor.Role == model.RoleAdmin || game.DeveloperID == actor.ID
}

func validateInput(input GameInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return model.ErrValidation
	}
	if input.Price < 0 || input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return model.ErrValidation
	}
	for _, genre := range input.Genres {
		if !model.ValidGenre(genre) {
			return model.ErrInvalidGenre
		}
	}
	return nil
}

// Slugify turns a title into a URL-safe slug
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

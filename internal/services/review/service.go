package review

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// ReviewInput carries the editable fields of a review
type ReviewInput struct {
	Rating        int
	Title         string
	Content       string
	IsRecommended bool
}

// Service manages game reviews and keeps each game's rating aggregate
// in step with its review set.
type Service struct {
	storage storage.Store
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new review service
func New(store storage.Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{storage: store, clock: clk, logger: logger}
}

// CreateReview posts a review. The author must own the game and may only
// review it once.
func (s *Service) CreateReview(ctx context.Context, userID model.UserID, gameID model.GameID, input ReviewInput) (*model.Review, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Price > 0 {
		if _, err := s.storage.GetCompletedPurchase(ctx, userID, gameID); err != nil {
			if errors.Is(err, model.ErrPurchaseNotFound) {
				return nil, model.ErrNotOwned
			}
			return nil, err
		}
	} else {
		// Free games only need a library entry
		if _, err := s.storage.GetLibraryEntry(ctx, userID, gameID); err != nil {
			if errors.Is(err, model.ErrEntryNotFound) {
				return nil, model.ErrNotOwned
			}
			return nil, err
		}
	}

	if _, err := s.storage.GetReviewByUserGame(ctx, userID, gameID); err == nil {
		return nil, model.ErrReviewExists
	} else if !errors.Is(err, model.ErrReviewNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	review := &model.Review{
		ID:            model.ReviewID(uuid.NewString()),
		UserID:        userID,
		GameID:        gameID,
		Rating:        input.Rating,
		Title:         input.Title,
		Content:       input.Content,
		IsRecommended: input.IsRecommended,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.storage.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	if err := s.refreshAggregate(ctx, gameID); err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview edits the author's own review
func (s *Service) UpdateReview(ctx context.Context, userID model.UserID, reviewID model.ReviewID, input ReviewInput) (*model.Review, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	review, err := s.storage.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, model.ErrReviewNotFound
	}

	review.Rating = input.Rating
	review.Title = input.Title
	review.Content = input.Content
	review.IsRecommended = input.IsRecommended
	review.IsEdited = true
	review.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	if err := s.refreshAggregate(ctx, review.GameID); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review. Authors can delete their own; admins
// can delete any.
func (s *Service) DeleteReview(ctx context.Context, actor *model.User, reviewID model.ReviewID) error {
	review, err := s.storage.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != actor.ID && actor.Role != model.RoleAdmin {
		return model.ErrReviewNotFound
	}

	if err := s.storage.DeleteReview(ctx, reviewID); err != nil {
		return err
	}
	return s.refreshAggregate(ctx, review.GameID)
}

// ListReviews returns a page of a game's reviews, newest first
func (s *Service) ListReviews(ctx context.Context, gameID model.GameID, offset, limit int) ([]*model.Review, int, error) {
	if _, err := s.storage.GetGame(ctx, gameID); err != nil {
		return nil, 0, err
	}
	return s.storage.ListGameReviews(ctx, gameID, offset, limit)
}

// ToggleLike flips the caller's like on a review, clearing any dislike
func (s *Service) ToggleLike(ctx context.Context, userID model.UserID, reviewID model.ReviewID) (*model.Review, error) {
	return s.toggleVote(ctx, userID, reviewID, true)
}

// ToggleDislike flips the caller's dislike on a review, clearing any like
func (s *Service) ToggleDislike(ctx context.Context, userID model.UserID, reviewID model.ReviewID) (*model.Review, error) {
	return s.toggleVote(ctx, userID, reviewID, false)
}

func (s *Service) toggleVote(ctx context.Context, userID model.UserID, reviewID model.ReviewID, like bool) (*model.Review, error) {
	review, err := s.storage.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if like {
		review.ToggleLike(userID)
	} else {
		review.ToggleDislike(userID)
	}
	review.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// refreshAggregate recomputes a game's average rating and review count.
// The mean is rounded to one decimal place.
func (s *Service) refreshAggregate(ctx context.Context, gameID model.GameID) error {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	reviews, err := s.storage.ListAllGameReviews(ctx, gameID)
	if err != nil {
		return err
	}

	game.TotalReviews = len(reviews)
	if len(reviews) == 0 {
		game.AverageRating = 0
	} else {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		mean := float64(sum) / float64(len(reviews))
		game.AverageRating = math.Round(mean*10) / 10
	}

	return s.storage.SaveGame(ctx, game)
}

func validateInput(input ReviewInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return model.ErrInvalidRating
	}
	if strings.TrimSpace(input.Content) == "" {
		return model.ErrValidation
	}
	return nil
}

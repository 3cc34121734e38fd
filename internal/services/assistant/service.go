package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// Reply is the chatbot's answer to one message. Suggestions carry games
// when the intent produced any.
type Reply struct {
	Intent      string        `json:"intent"`
	Message     string        `json:"message"`
	Suggestions []*model.Game `json:"suggestions,omitempty"`
}

// Service answers storefront questions with keyword rules and builds
// per-user recommendations from library genres.
type Service struct {
	storage storage.Store
	logger  *slog.Logger
}

// New creates a new assistant service
func New(store storage.Store, logger *slog.Logger) *Service {
	return &Service{storage: store, logger: logger}
}

// Recommend ranks published games the user does not own by how well
// their genres match the user's library, breaking ties on rating.
func (s *Service) Recommend(ctx context.Context, userID model.UserID, limit int) ([]*model.Game, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	entries, err := s.storage.ListLibrary(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned := make(map[model.GameID]bool, len(entries))
	genreWeight := make(map[string]int)
	for _, entry := range entries {
		owned[entry.GameID] = true
		game, err := s.storage.GetGame(ctx, entry.GameID)
		if err != nil {
			continue
		}
		for _, genre := range game.Genres {
			genreWeight[genre]++
		}
	}

	candidates, _, err := s.storage.ListGames(ctx, storage.GameFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	type scored struct {
		game  *model.Game
		score int
	}
	var ranked []scored
	for _, game := range candidates {
		if owned[game.ID] {
			continue
		}
		score := 0
		for _, genre := range game.Genres {
			score += genreWeight[genre]
		}
		ranked = append(ranked, scored{game: game, score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].game.AverageRating > ranked[j].game.AverageRating
	})

	out := make([]*model.Game, 0, limit)
	for _, r := range ranked {
		if len(out) == limit {
			break
		}
		out = append(out, r.game)
	}
	return out, nil
}

// Chat answers one user message. Intents are matched with keyword rules
// in priority order; unmatched messages get the fallback answer.
func (s *Service) Chat(ctx context.Context, userID model.UserID, message string) (*Reply, error) {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return nil, model.ErrValidation
	}

	switch {
	case containsAny(text, "hello", "hi ", "hey") || text == "hi":
		return &Reply{
			Intent:  "greeting",
			Message: "Hey! Ask me for game recommendations, deals, or what's trending.",
		}, nil

	case containsAny(text, "recommend", "suggest", "what should i play"):
		if genre := matchGenre(text); genre != "" {
			return s.genreReply(ctx, genre)
		}
		games, err := s.Recommend(ctx, userID, 5)
		if err != nil {
			return nil, err
		}
		if len(games) == 0 {
			return &Reply{Intent: "recommend", Message: "I couldn't find anything new for you right now."}, nil
		}
		return &Reply{
			Intent:      "recommend",
			Message:     fmt.Sprintf("Based on your library, you might like %s.", games[0].Title),
			Suggestions: games,
		}, nil

	case containsAny(text, "deal", "discount", "sale", "cheap"):
		return s.dealsReply(ctx)

	case containsAny(text, "trending", "popular", "top games"):
		games, _, err := s.storage.ListGames(ctx, storage.GameFilter{
			PublishedOnly: true,
			Sort:          "downloads",
			Page:          1,
			PageSize:      5,
		})
		if err != nil {
			return nil, err
		}
		return &Reply{
			Intent:      "trending",
			Message:     "Here's what everyone is playing right now.",
			Suggestions: games,
		}, nil

	case containsAny(text, "free", "free games", "free to play"):
		zero := 0
		games, _, err := s.storage.ListGames(ctx, storage.GameFilter{
			PublishedOnly: true,
			MaxPrice:      &zero,
			Sort:          "rating",
			Page:          1,
			PageSize:      5,
		})
		if err != nil {
			return nil, err
		}
		return &Reply{
			Intent:      "free",
			Message:     "These are the best free games on the store.",
			Suggestions: games,
		}, nil

	case matchGenre(text) != "":
		return s.genreReply(ctx, matchGenre(text))

	case containsAny(text, "help", "what can you do"):
		return &Reply{
			Intent:  "help",
			Message: "I can recommend games, find deals and free games, and show what's trending. Try \"recommend me an rpg\".",
		}, nil

	default:
		return &Reply{
			Intent:  "fallback",
			Message: "Not sure I follow. Ask me about recommendations, deals, free games, or what's trending.",
		}, nil
	}
}

func (s *Service) genreReply(ctx context.Context, genre string) (*Reply, error) {
	games, _, err := s.storage.ListGames(ctx, storage.GameFilter{
		PublishedOnly: true,
		Genre:         genre,
		Sort:          "rating",
		Page:          1,
		PageSize:      5,
	})
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return &Reply{
			Intent:  "genre",
			Message: fmt.Sprintf("No %s games on the store yet, sorry.", genre),
		}, nil
	}
	return &Reply{
		Intent:      "genre",
		Message:     fmt.Sprintf("Top rated %s games for you.", genre),
		Suggestions: games,
	}, nil
}

func (s *Service) dealsReply(ctx context.Context) (*Reply, error) {
	games, _, err := s.storage.ListGames(ctx, storage.GameFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	var deals []*model.Game
	for _, g := range games {
		if g.DiscountPercent > 0 {
			deals = append(deals, g)
		}
	}
	sort.Slice(deals, func(i, j int) bool { return deals[i].DiscountPercent > deals[j].DiscountPercent })
	if len(deals) > 5 {
		deals = deals[:5]
	}
	if len(deals) == 0 {
		return &Reply{Intent: "deals", Message: "Nothing is on sale right now. Check back soon!"}, nil
	}
	return &Reply{
		Intent:      "deals",
		Message:     fmt.Sprintf("Biggest discount right now: %s at %d%% off.", deals[0].Title, deals[0].DiscountPercent),
		Suggestions: deals,
	}, nil
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func matchGenre(text string) string {
	for _, genre := range model.Genres {
		if strings.Contains(text, genre) {
			return genre
		}
	}
	return ""
}

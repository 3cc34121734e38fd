package storage

import (
	"sort"
	"strings"

	"github.com/jfmcewan/gamehub/internal/model"
)

// FilterGames applies a GameFilter's predicates (not its paging) to a slice of games.
// Shared by backends that filter in process rather than in the database.
func FilterGames(games []*model.Game, filter GameFilter) []*model.Game {
	var out []*model.Game
	for _, g := range games {
		if filter.PublishedOnly && !g.IsPublished {
			continue
		}
		if filter.FeaturedOnly && !g.IsFeatured {
			continue
		}
		if filter.Genre != "" && !g.HasGenre(filter.Genre) {
			continue
		}
		if filter.Tag != "" && !hasTag(g, filter.Tag) {
			continue
		}
		if filter.MinPrice != nil && g.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && g.Price > *filter.MaxPrice {
			continue
		}
		if filter.Search != "" && !matchesSearch(g, filter.Search) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func hasTag(g *model.Game, tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matchesSearch(g *model.Game, query string) bool {
	needle := strings.ToLower(query)
	if strings.Contains(strings.ToLower(g.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(g.Description), needle) {
		return true
	}
	for _, t := range g.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// SortGames orders games in place by the named sort key
func SortGames(games []*model.Game, key string) {
	switch key {
	case "rating":
		sort.Slice(games, func(i, j int) bool {
			if games[i].AverageRating != games[j].AverageRating {
				return games[i].AverageRating > games[j].AverageRating
			}
			return games[i].TotalDownloads > games[j].TotalDownloads
		})
	case "downloads":
		sort.Slice(games, func(i, j int) bool {
			if games[i].TotalDownloads != games[j].TotalDownloads {
				return games[i].TotalDownloads > games[j].TotalDownloads
			}
			return games[i].AverageRating > games[j].AverageRating
		})
	case "price":
		sort.Slice(games, func(i, j int) bool { return games[i].Price < games[j].Price })
	default: // "newest"
		sort.Slice(games, func(i, j int) bool { return games[i].CreatedAt.After(games[j].CreatedAt) })
	}
}

// PageGames returns the requested page (1-based) of games
func PageGames(games []*model.Game, page, pageSize int) []*model.Game {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return games
	}
	start := (page - 1) * pageSize
	if start >= len(games) {
		return []*model.Game{}
	}
	end := start + pageSize
	if end > len(games) {
		end = len(games)
	}
	return games[start:end]
}

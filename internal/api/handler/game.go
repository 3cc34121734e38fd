package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/api/request"
	"github.com/jfmcewan/gamehub/internal/api/response"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/catalog"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// GameHandler handles catalog endpoints
type GameHandler struct {
	catalogService *catalog.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(catalogService *catalog.Service) *GameHandler {
	return &GameHandler{
		catalogService: catalogService,
	}
}

// List handles GET /api/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	games, total, err := h.catalogService.ListGames(r.Context(), filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameList{
		Games:    games,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

// Get handles GET /api/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	viewer := middleware.GetUser(r.Context())

	game, err := h.catalogService.GetGame(r.Context(), viewer, model.GameID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, game)
}

// GetBySlug handles GET /api/games/slug/{slug}
func (h *GameHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	viewer := middleware.GetUser(r.Context())

	game, err := h.catalogService.GetGameBySlug(r.Context(), viewer, slug)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, game)
}

// Featured handles GET /api/games/featured
func (h *GameHandler) Featured(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalogService.FeaturedGames(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, games)
}

// Trending handles GET /api/games/trending
func (h *GameHandler) Trending(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalogService.TrendingGames(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, games)
}

// Genres handles GET /api/games/genres
func (h *GameHandler) Genres(w http.ResponseWriter, r *http.Request) {
	counts, err := h.catalogService.GenreCounts(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.GenreCount, 0, len(model.Genres))
	for _, genre := range model.Genres {
		out = append(out, response.GenreCount{Genre: genre, Count: counts[genre]})
	}
	response.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/dev/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.catalogService.CreateGame(r.Context(), user.ID, gameInputFromRequest(req))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, game)
}

// Update handles PUT /api/dev/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	var req request.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.catalogService.UpdateGame(r.Context(), user, model.GameID(id), gameInputFromRequest(req))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, game)
}

// Publish handles PATCH /api/dev/games/{id}/publish
func (h *GameHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	var req request.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.catalogService.SetPublished(r.Context(), user, model.GameID(id), req.Published)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, game)
}

// Feature handles PATCH /api/dev/games/{id}/feature
func (h *GameHandler) Feature(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	var req request.FeatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.catalogService.SetFeatured(r.Context(), user, model.GameID(id), req.Featured)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, game)
}

// Delete handles DELETE /api/dev/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.catalogService.DeleteGame(r.Context(), user, model.GameID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// MyGames handles GET /api/dev/games
func (h *GameHandler) MyGames(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	games, err := h.catalogService.ListDeveloperGames(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, games)
}

func gameInputFromRequest(req request.GameRequest) catalog.GameInput {
	return catalog.GameInput{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		DiscountPercent:  req.DiscountPercent,
		Genres:           req.Genres,
		Tags:             req.Tags,
		Publisher:        req.Publisher,
		CoverImage:       req.CoverImage,
		Screenshots:      req.Screenshots,
		TrailerURL:       req.TrailerURL,
		DownloadURL:      req.DownloadURL,
		FileSize:         req.FileSize,
		CurrentVersion:   req.CurrentVersion,
		Platforms:        req.Platforms,
	}
}

func filterFromQuery(r *http.Request) storage.GameFilter {
	q := r.URL.Query()

	filter := storage.GameFilter{
		Genre:    q.Get("genre"),
		Tag:      q.Get("tag"),
		Search:   q.Get("q"),
		Sort:     q.Get("sort"),
		Page:     queryInt(r, "page", 0),
		PageSize: queryInt(r, "page_size", 20),
	}
	if raw := q.Get("min_price"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := q.Get("max_price"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MaxPrice = &v
		}
	}
	return filter
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/api/request"
	"github.com/jfmcewan/gamehub/internal/api/response"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/achievement"
)

// AchievementHandler handles achievement endpoints
type AchievementHandler struct {
	achievementService *achievement.Service
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(achievementService *achievement.Service) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
	}
}

// ListForGame handles GET /api/games/{id}/achievements
func (h *AchievementHandler) ListForGame(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUser(r.Context())
	id := mux.Vars(r)["id"]

	achievements, err := h.achievementService.ListGameAchievements(r.Context(), viewer, model.GameID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, achievements)
}

// Create handles POST /api/dev/games/{id}/achievements
func (h *AchievementHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	var req request.AchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.achievementService.CreateAchievement(r.Context(), user, model.GameID(id), achievement.AchievementInput{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Points:      req.Points,
		Rarity:      model.AchievementRarity(req.Rarity),
		IsHidden:    req.IsHidden,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, created)
}

// Unlock handles POST /api/achievements/{id}/unlock
func (h *AchievementHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	unlocked, err := h.achievementService.Unlock(r.Context(), user.ID, model.AchievementID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, unlocked)
}

// Mine handles GET /api/achievements
func (h *AchievementHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	unlocks, err := h.achievementService.UserAchievements(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, unlocks)
}

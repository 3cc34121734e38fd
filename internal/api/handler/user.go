package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/api/request"
	"github.com/jfmcewan/gamehub/internal/api/response"
	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/social"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// UserHandler handles profile endpoints
type UserHandler struct {
	storage       storage.Store
	socialService *social.Service
	clock         clock.Clock
}

// NewUserHandler creates a new user handler
func NewUserHandler(store storage.Store, socialService *social.Service, clk clock.Clock) *UserHandler {
	return &UserHandler{
		storage:       store,
		socialService: socialService,
		clock:         clk,
	}
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := h.storage.GetUser(r.Context(), model.UserID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// UpdateProfile handles PATCH /api/users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Country != nil {
		user.Country = *req.Country
	}
	user.UpdatedAt = h.clock.Now()

	if err := h.storage.SaveUser(r.Context(), user); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OwnUserFromModel(user))
}

// Search handles GET /api/users?q=...
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 20)

	users, err := h.socialService.SearchUsers(r.Context(), user.ID, query, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UsersFromModels(users))
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/api/request"
	"github.com/jfmcewan/gamehub/internal/api/response"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/social"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// SocialHandler handles friend and block endpoints
type SocialHandler struct {
	socialService *social.Service
	storage       storage.Store
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(socialService *social.Service, store storage.Store) *SocialHandler {
	return &SocialHandler{
		socialService: socialService,
		storage:       store,
	}
}

// SendRequest handles POST /api/friends/requests
func (h *SocialHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.FriendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.UserID == "" {
		WriteError(w, NewInvalidRequestError("user_id is required"))
		return
	}

	sent, err := h.socialService.SendRequest(r.Context(), user.ID, model.UserID(req.UserID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, sent)
}

// Accept handles POST /api/friends/requests/{id}/accept
func (h *SocialHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	accepted, err := h.socialService.AcceptRequest(r.Context(), user.ID, model.RequestID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, accepted)
}

// Decline handles POST /api/friends/requests/{id}/decline
func (h *SocialHandler) Decline(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	declined, err := h.socialService.DeclineRequest(r.Context(), user.ID, model.RequestID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, declined)
}

// Friends handles GET /api/friends
func (h *SocialHandler) Friends(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	friends, err := h.socialService.Friends(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UsersFromModels(friends))
}

// Pending handles GET /api/friends/requests
func (h *SocialHandler) Pending(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	requests, err := h.socialService.PendingRequests(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.FriendRequestView, 0, len(requests))
	for _, req := range requests {
		sender, err := h.storage.GetUser(r.Context(), req.SenderID)
		if err != nil {
			continue
		}
		out = append(out, response.FriendRequestView{
			Request: req,
			Sender:  response.UserFromModel(sender),
		})
	}
	response.JSON(w, http.StatusOK, out)
}

// Remove handles DELETE /api/friends/{id}
func (h *SocialHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.socialService.RemoveFriend(r.Context(), user.ID, model.UserID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Block handles POST /api/users/{id}/block
func (h *SocialHandler) Block(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.socialService.Block(r.Context(), user.ID, model.UserID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Unblock handles DELETE /api/users/{id}/block
func (h *SocialHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.socialService.Unblock(r.Context(), user.ID, model.UserID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

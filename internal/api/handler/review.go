package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/api/request"
	"github.com/jfmcewan/gamehub/internal/api/response"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/review"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *review.Service
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *review.Service) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// List handles GET /api/games/{id}/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	offset, limit := pageParams(r, 20)

	reviews, total, err := h.reviewService.ListReviews(r.Context(), model.GameID(id), offset, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ReviewList{Reviews: reviews, Total: total})
}

// Create handles POST /api/games/{id}/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	var req request.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.reviewService.CreateReview(r.Context(), user.ID, model.GameID(id), reviewInputFromRequest(req))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/reviews/{id}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	var req request.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	updated, err := h.reviewService.UpdateReview(r.Context(), user.ID, model.ReviewID(id), reviewInputFromRequest(req))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/reviews/{id}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.reviewService.DeleteReview(r.Context(), user, model.ReviewID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Like handles POST /api/reviews/{id}/like
func (h *ReviewHandler) Like(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	updated, err := h.reviewService.ToggleLike(r.Context(), user.ID, model.ReviewID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated)
}

// Dislike handles POST /api/reviews/{id}/dislike
func (h *ReviewHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	updated, err := h.reviewService.ToggleDislike(r.Context(), user.ID, model.ReviewID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated)
}

func reviewInputFromRequest(req request.ReviewRequest) review.ReviewInput {
	return review.ReviewInput{
		Rating:        req.Rating,
		Title:         req.Title,
		Content:       req.Content,
		IsRecommended: req.IsRecommended,
	}
}

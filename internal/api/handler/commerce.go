package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/api/request"
	"github.com/jfmcewan/gamehub/internal/api/response"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/commerce"
)

// CommerceHandler handles purchase, library and wishlist endpoints
type CommerceHandler struct {
	commerceService *commerce.Service
}

// NewCommerceHandler creates a new commerce handler
func NewCommerceHandler(commerceService *commerce.Service) *CommerceHandler {
	return &CommerceHandler{
		commerceService: commerceService,
	}
}

// Purchase handles POST /api/games/{id}/purchase
func (h *CommerceHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	var req request.PurchaseRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	purchase, err := h.commerceService.Purchase(r.Context(), user.ID, model.GameID(id), req.PaymentRef)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, purchase)
}

// Purchases handles GET /api/purchases
func (h *CommerceHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	purchases, err := h.commerceService.ListPurchases(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, purchases)
}

// Download handles POST /api/games/{id}/download
func (h *CommerceHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	url, err := h.commerceService.Download(r.Context(), user.ID, model.GameID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DownloadResponse{DownloadURL: url})
}

// Library handles GET /api/library
func (h *CommerceHandler) Library(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	entries, games, err := h.commerceService.ListLibrary(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	items := make([]response.LibraryItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, response.LibraryItem{
			Entry: entry,
			Game:  games[entry.GameID],
		})
	}
	response.JSON(w, http.StatusOK, items)
}

// Playtime handles POST /api/library/{id}/playtime
func (h *CommerceHandler) Playtime(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	var req request.PlaytimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	entry, err := h.commerceService.RecordPlaytime(r.Context(), user.ID, model.GameID(id), req.Minutes)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, entry)
}

// Favorite handles PATCH /api/library/{id}/favorite
func (h *CommerceHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	var req request.FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	entry, err := h.commerceService.SetFavorite(r.Context(), user.ID, model.GameID(id), req.Favorite)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, entry)
}

// Wishlist handles GET /api/wishlist
func (h *CommerceHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	games, err := h.commerceService.Wishlist(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, games)
}

// AddWishlist handles POST /api/wishlist/{id}
func (h *CommerceHandler) AddWishlist(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	updated, err := h.commerceService.AddToWishlist(r.Context(), user.ID, model.GameID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OwnUserFromModel(updated))
}

// RemoveWishlist handles DELETE /api/wishlist/{id}
func (h *CommerceHandler) RemoveWishlist(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	updated, err := h.commerceService.RemoveFromWishlist(r.Context(), user.ID, model.GameID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OwnUserFromModel(updated))
}

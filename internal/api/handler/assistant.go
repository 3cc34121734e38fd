package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/api/request"
	"github.com/jfmcewan/gamehub/internal/api/response"
	"github.com/jfmcewan/gamehub/internal/services/assistant"
)

// AssistantHandler handles the storefront assistant endpoints
type AssistantHandler struct {
	assistantService *assistant.Service
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService *assistant.Service) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
	}
}

// Chat handles POST /api/assistant/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.AssistantChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	reply, err := h.assistantService.Chat(r.Context(), user.ID, req.Message)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, reply)
}

// Recommend handles GET /api/assistant/recommendations
func (h *AssistantHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	games, err := h.assistantService.Recommend(r.Context(), user.ID, queryInt(r, "limit", 10))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, games)
}

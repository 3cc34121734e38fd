package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jfmcewan/gamehub/internal/api/middleware"
	"github.com/jfmcewan/gamehub/internal/api/request"
	"github.com/jfmcewan/gamehub/internal/api/response"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/chat"
)

// ChatHandler handles the REST surface of direct messaging. Sends go
// through the same service path as the socket, so messages sent here
// still reach the room's live connections and notify the receiver.
type ChatHandler struct {
	chatService *chat.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// Send handles POST /api/chat/messages
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ReceiverID == "" {
		WriteError(w, NewInvalidRequestError("receiver_id is required"))
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), user.ID, model.UserID(req.ReceiverID), req.Content, model.MessageType(req.Type))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, msg)
}

// History handles GET /api/chat/{userId}/messages
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	other := mux.Vars(r)["userId"]
	offset, limit := pageParams(r, 50)

	messages, total, err := h.chatService.History(r.Context(), user.ID, model.UserID(other), offset, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessageList{Messages: messages, Total: total})
}

// MarkRead handles POST /api/chat/{userId}/read
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	other := mux.Vars(r)["userId"]

	marked, err := h.chatService.MarkRead(r.Context(), user.ID, model.UserID(other))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MarkReadResponse{Marked: marked})
}

// Delete handles DELETE /api/chat/messages/{id}
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.chatService.DeleteMessage(r.Context(), user.ID, model.MessageID(id)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Conversations handles GET /api/chat/conversations
func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	conversations, err := h.chatService.Conversations(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, conversations)
}

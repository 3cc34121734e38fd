package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/chat"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// SocketConfig holds websocket timing and sizing knobs
type SocketConfig struct {
	WriteTimeout    time.Duration
	PongTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageBytes int64
}

// DefaultSocketConfig returns sensible socket defaults
func DefaultSocketConfig() SocketConfig {
	return SocketConfig{
		WriteTimeout:    10 * time.Second,
		PongTimeout:     60 * time.Second,
		PingInterval:    54 * time.Second,
		MaxMessageBytes: 4096,
	}
}

// Authenticator resolves the user behind an upgrade request
type Authenticator func(r *http.Request) (*model.User, error)

type eventHandler func(ctx context.Context, c *Client, data json.RawMessage)

// SocketHandler upgrades HTTP requests to websocket sessions and
// dispatches inbound events
type SocketHandler struct {
	hub      *Hub
	presence *PresenceTracker
	chat     *chat.Service
	storage  storage.Store
	clock    clock.Clock
	auth     Authenticator
	logger   *slog.Logger
	cfg      SocketConfig
	upgrader websocket.Upgrader

	handlers map[string]eventHandler
}

// NewSocketHandler wires the socket endpoint
func NewSocketHandler(
	hub *Hub,
	presence *PresenceTracker,
	chatSvc *chat.Service,
	store storage.Store,
	clk clock.Clock,
	auth Authenticator,
	logger *slog.Logger,
	cfg SocketConfig,
) *SocketHandler {
	if cfg.WriteTimeout <= 0 || cfg.PongTimeout <= 0 || cfg.PingInterval <= 0 {
		cfg = DefaultSocketConfig()
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = DefaultSocketConfig().MaxMessageBytes
	}
	h := &SocketHandler{
		hub:      hub,
		presence: presence,
		chat:     chatSvc,
		storage:  store,
		clock:    clk,
		auth:     auth,
		logger:   logger.With(slog.String("component", "socket")),
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	h.handlers = map[string]eventHandler{
		model.EventJoinRoom:    h.handleJoinRoom,
		model.EventSendMessage: h.handleSendMessage,
		model.EventTyping:      h.handleTyping,
		model.EventStopTyping:  h.handleStopTyping,
		model.EventPlayingGame: h.handlePlayingGame,
	}
	return h
}

// ServeHTTP upgrades the connection and runs the session until the
// client disconnects
func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "user_id", user.ID, "error", err)
		return
	}

	client := h.hub.newClient(conn, user)
	h.hub.add(client)
	h.connected(r.Context(), client)

	go h.writePump(client)
	h.readPump(r.Context(), client)
}

// connected handles presence when a connection opens. Only the user's
// first connection flips them online.
func (h *SocketHandler) connected(ctx context.Context, c *Client) {
	if !h.presence.Connect(c.user.ID) {
		return
	}

	h.setStoredStatus(ctx, c.user.ID, model.StatusOnline, "")
	h.hub.BroadcastAll(model.EventUserStatus, model.UserStatusPayload{
		UserID: c.user.ID,
		Status: model.StatusOnline,
	})
}

// disconnected handles presence when a connection closes. Only the
// user's last connection flips them offline.
func (h *SocketHandler) disconnected(ctx context.Context, c *Client) {
	h.hub.remove(c)
	if !h.presence.Disconnect(c.user.ID) {
		return
	}

	h.setStoredStatus(ctx, c.user.ID, model.StatusOffline, "")
	h.hub.BroadcastAll(model.EventUserStatus, model.UserStatusPayload{
		UserID: c.user.ID,
		Status: model.StatusOffline,
	})
}

func (h *SocketHandler) readPump(ctx context.Context, c *Client) {
	defer func() {
		h.disconnected(ctx, c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(h.cfg.MaxMessageBytes)
	_ = c.conn.SetReadDeadline(h.clock.Now().Add(h.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(h.clock.Now().Add(h.cfg.PongTimeout))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("unexpected close", "user_id", c.user.ID, "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			h.sendError(c, "malformed message")
			continue
		}

		handler, ok := h.handlers[env.Event]
		if !ok {
			h.sendError(c, "unknown event: "+env.Event)
			continue
		}
		handler(ctx, c, env.Data)
	}
}

func (h *SocketHandler) writePump(c *Client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(h.clock.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(h.clock.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *SocketHandler) handleJoinRoom(_ context.Context, c *Client, data json.RawMessage) {
	var p model.JoinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == "" {
		h.sendError(c, "join_room requires a userId")
		return
	}

	room := model.NewRoomID(c.user.ID, p.UserID)
	h.hub.JoinRoom(c, room)
	h.hub.SendTo(c, model.EventJoinedRoom, model.JoinedRoomPayload{Room: room})
}

func (h *SocketHandler) handleSendMessage(ctx context.Context, c *Client, data json.RawMessage) {
	var p model.SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.ReceiverID == "" {
		h.sendError(c, "send_message requires a receiverId")
		return
	}

	// The service broadcasts to the room and notifies the receiver
	if _, err := h.chat.SendMessage(ctx, c.user.ID, p.ReceiverID, p.Content, p.Type); err != nil {
		h.sendError(c, userFacing(err))
	}
}

func (h *SocketHandler) handleTyping(_ context.Context, c *Client, data json.RawMessage) {
	var p model.TypingPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ReceiverID == "" {
		h.sendError(c, "typing requires a receiverId")
		return
	}

	room := model.NewRoomID(c.user.ID, p.ReceiverID)
	h.hub.BroadcastRoom(room, model.EventUserTyping, model.UserTypingPayload{
		UserID:   c.user.ID,
		Username: c.user.Username,
	}, c)
}

func (h *SocketHandler) handleStopTyping(_ context.Context, c *Client, data json.RawMessage) {
	var p model.TypingPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ReceiverID == "" {
		h.sendError(c, "stop_typing requires a receiverId")
		return
	}

	room := model.NewRoomID(c.user.ID, p.ReceiverID)
	h.hub.BroadcastRoom(room, model.EventStopTypingTo, model.UserTypingPayload{
		UserID: c.user.ID,
	}, c)
}

func (h *SocketHandler) handlePlayingGame(ctx context.Context, c *Client, data json.RawMessage) {
	var p model.PlayingGamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.sendError(c, "malformed playing_game payload")
		return
	}

	if !h.presence.SetPlaying(c.user.ID, p.GameName) {
		return
	}

	status, game := h.presence.Status(c.user.ID)
	h.setStoredStatus(ctx, c.user.ID, status, game)
	h.hub.BroadcastAll(model.EventUserStatus, model.UserStatusPayload{
		UserID:      c.user.ID,
		Status:      status,
		CurrentGame: game,
	})
}

func (h *SocketHandler) sendError(c *Client, message string) {
	h.hub.SendTo(c, model.EventError, model.ErrorPayload{Message: message})
}

func (h *SocketHandler) setStoredStatus(ctx context.Context, userID model.UserID, status model.PresenceStatus, game string) {
	user, err := h.storage.GetUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load user for status update", "user_id", userID, "error", err)
		return
	}

	now := h.clock.Now()
	user.Status = status
	user.CurrentGame = game
	if status == model.StatusOffline {
		user.LastOnline = &now
	}
	user.UpdatedAt = now
	if err := h.storage.SaveUser(ctx, user); err != nil {
		h.logger.Error("failed to persist status", "user_id", userID, "error", err)
	}
}

// userFacing keeps storage internals out of socket error frames
func userFacing(err error) string {
	switch {
	case errors.Is(err, model.ErrSelfMessage):
		return "cannot message yourself"
	case errors.Is(err, model.ErrBlocked):
		return "messaging is blocked between these users"
	case errors.Is(err, model.ErrUserNotFound):
		return "recipient not found"
	case errors.Is(err, model.ErrValidation):
		return "message content is empty"
	default:
		return "failed to send message"
	}
}

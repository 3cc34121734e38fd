package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/jfmcewan/gamehub/internal/model"
)

// Envelope is the wire frame every socket message travels in
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client is one live websocket connection for one user
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	user model.User
	send chan []byte

	mu    sync.Mutex
	rooms map[model.RoomID]bool
}

// UserID returns the connection owner's ID
func (c *Client) UserID() model.UserID {
	return c.user.ID
}

func (c *Client) inRoom(room model.RoomID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms[room]
}

func (c *Client) joinRoom(room model.RoomID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[room] = true
}

// Hub tracks live connections and routes events to users, rooms and
// the whole site
type Hub struct {
	logger  *slog.Logger
	bufSize int

	mu      sync.RWMutex
	clients map[*Client]bool
	byUser  map[model.UserID]map[*Client]bool
	rooms   map[model.RoomID]map[*Client]bool
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger, sendBufferSize int) *Hub {
	if sendBufferSize <= 0 {
		sendBufferSize = 64
	}
	return &Hub{
		logger:  logger.With(slog.String("component", "realtime")),
		bufSize: sendBufferSize,
		clients: make(map[*Client]bool),
		byUser:  make(map[model.UserID]map[*Client]bool),
		rooms:   make(map[model.RoomID]map[*Client]bool),
	}
}

func (h *Hub) newClient(conn *websocket.Conn, user *model.User) *Client {
	return &Client{
		hub:   h,
		conn:  conn,
		user:  *user,
		send:  make(chan []byte, h.bufSize),
		rooms: make(map[model.RoomID]bool),
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = true
	conns, ok := h.byUser[c.user.ID]
	if !ok {
		conns = make(map[*Client]bool)
		h.byUser[c.user.ID] = conns
	}
	conns[c] = true

	h.logger.Info("client connected",
		slog.String("user_id", string(c.user.ID)),
		slog.Int("total_clients", len(h.clients)))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.send)

	if conns, ok := h.byUser[c.user.ID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.byUser, c.user.ID)
		}
	}
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}

	h.logger.Info("client disconnected",
		slog.String("user_id", string(c.user.ID)),
		slog.Int("total_clients", len(h.clients)))
}

// JoinRoom subscribes a client to a conversation room
func (h *Hub) JoinRoom(c *Client, room model.RoomID) {
	h.mu.Lock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[c] = true
	h.mu.Unlock()

	c.joinRoom(room)
}

// RoomHasUser reports whether any of a user's connections joined a room
func (h *Hub) RoomHasUser(room model.RoomID, userID model.UserID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if c.user.ID == userID {
			return true
		}
	}
	return false
}

// PushToUser sends an event to every connection a user has open.
// Implements the notification fan-out hook.
func (h *Hub) PushToUser(userID model.UserID, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byUser[userID] {
		h.deliver(c, data, event)
	}
}

// BroadcastRoom sends an event to every connection in a room, optionally
// skipping one client
func (h *Hub) BroadcastRoom(room model.RoomID, event string, payload any, except *Client) {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if c == except {
			continue
		}
		h.deliver(c, data, event)
	}
}

// BroadcastToRoom sends an event to every connection in a room.
// Satisfies the chat service's fan-out hook.
func (h *Hub) BroadcastToRoom(room model.RoomID, event string, payload any) {
	h.BroadcastRoom(room, event, payload, nil)
}

// BroadcastAll sends an event to every connected client
func (h *Hub) BroadcastAll(event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.deliver(c, data, event)
	}
}

// SendTo sends an event to a single connection
func (h *Hub) SendTo(c *Client, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(c, data, event)
}

// deliver writes to a client's send buffer, dropping on overflow.
// Callers hold at least a read lock.
func (h *Hub) deliver(c *Client, data []byte, event string) {
	select {
	case c.send <- data:
	default:
		h.logger.Warn("event dropped - client buffer full",
			slog.String("user_id", string(c.user.ID)),
			slog.String("event", event))
	}
}

// ClientCount returns the number of live connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func encode(event string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

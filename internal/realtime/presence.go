package realtime

import (
	"sync"

	"github.com/jfmcewan/gamehub/internal/model"
)

type presenceState struct {
	refs        int
	status      model.PresenceStatus
	currentGame string
}

// PresenceTracker reference-counts live connections per user. A user
// with several open tabs stays online until the last one closes.
type PresenceTracker struct {
	mu     sync.Mutex
	states map[model.UserID]*presenceState
}

// NewPresenceTracker creates an empty tracker
func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{states: make(map[model.UserID]*presenceState)}
}

// Connect registers one connection and reports whether it was the
// user's first
func (t *PresenceTracker) Connect(userID model.UserID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[userID]
	if !ok {
		t.states[userID] = &presenceState{refs: 1, status: model.StatusOnline}
		return true
	}
	state.refs++
	return false
}

// Disconnect releases one connection and reports whether it was the
// user's last
func (t *PresenceTracker) Disconnect(userID model.UserID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[userID]
	if !ok {
		return false
	}
	state.refs--
	if state.refs > 0 {
		return false
	}
	delete(t.states, userID)
	return true
}

// SetPlaying marks a connected user as in-game. An empty game name
// returns them to plain online.
func (t *PresenceTracker) SetPlaying(userID model.UserID, game string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[userID]
	if !ok {
		return false
	}
	if game == "" {
		state.status = model.StatusOnline
		state.currentGame = ""
	} else {
		state.status = model.StatusInGame
		state.currentGame = game
	}
	return true
}

// Status returns a user's live status. Users with no connection are
// offline.
func (t *PresenceTracker) Status(userID model.UserID) (model.PresenceStatus, string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[userID]
	if !ok {
		return model.StatusOffline, ""
	}
	return state.status, state.currentGame
}

// Online reports whether the user has at least one live connection
func (t *PresenceTracker) Online(userID model.UserID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.states[userID]
	return ok
}

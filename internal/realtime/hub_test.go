package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/testutil"
)

func newTestHub() *Hub {
	return NewHub(testutil.NopLogger(), 8)
}

func addClient(h *Hub, userID model.UserID) *Client {
	c := h.newClient(nil, &model.User{ID: userID, Username: string(userID)})
	h.add(c)
	return c
}

func recvEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case data := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		return env
	default:
		t.Fatal("expected a queued event")
		return Envelope{}
	}
}

func assertEmpty(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected queued event: %s", data)
	default:
	}
}

func TestPushToUserReachesAllConnections(t *testing.T) {
	h := newTestHub()
	first := addClient(h, "user-1")
	second := addClient(h, "user-1")
	other := addClient(h, "user-2")

	h.PushToUser("user-1", model.EventNotification, model.NotificationPayload{Kind: model.NotifyChat, Title: "hi"})

	for _, c := range []*Client{first, second} {
		env := recvEnvelope(t, c)
		assert.Equal(t, model.EventNotification, env.Event)
	}
	assertEmpty(t, other)
}

func TestBroadcastRoomSkipsNonMembersAndExcluded(t *testing.T) {
	h := newTestHub()
	alice := addClient(h, "user-a")
	bob := addClient(h, "user-b")
	carol := addClient(h, "user-c")

	room := model.NewRoomID("user-a", "user-b")
	h.JoinRoom(alice, room)
	h.JoinRoom(bob, room)

	h.BroadcastRoom(room, model.EventUserTyping, model.UserTypingPayload{UserID: "user-a"}, alice)

	env := recvEnvelope(t, bob)
	assert.Equal(t, model.EventUserTyping, env.Event)

	var payload model.UserTypingPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, model.UserID("user-a"), payload.UserID)

	assertEmpty(t, alice)
	assertEmpty(t, carol)
}

func TestBroadcastAll(t *testing.T) {
	h := newTestHub()
	alice := addClient(h, "user-a")
	bob := addClient(h, "user-b")

	h.BroadcastAll(model.EventUserStatus, model.UserStatusPayload{UserID: "user-a", Status: model.StatusOnline})

	for _, c := range []*Client{alice, bob} {
		env := recvEnvelope(t, c)
		assert.Equal(t, model.EventUserStatus, env.Event)
	}
}

func TestRoomHasUser(t *testing.T) {
	h := newTestHub()
	alice := addClient(h, "user-a")

	room := model.NewRoomID("user-a", "user-b")
	assert.False(t, h.RoomHasUser(room, "user-a"))

	h.JoinRoom(alice, room)
	assert.True(t, h.RoomHasUser(room, "user-a"))
	assert.False(t, h.RoomHasUser(room, "user-b"))
	assert.True(t, alice.inRoom(room))
}

func TestRemoveCleansUpIndexes(t *testing.T) {
	h := newTestHub()
	alice := addClient(h, "user-a")

	room := model.NewRoomID("user-a", "user-b")
	h.JoinRoom(alice, room)
	require.Equal(t, 1, h.ClientCount())

	h.remove(alice)
	assert.Equal(t, 0, h.ClientCount())
	assert.False(t, h.RoomHasUser(room, "user-a"))

	// Events to the departed user go nowhere
	h.PushToUser("user-a", model.EventNotification, nil)

	// Removing twice is safe
	h.remove(alice)
}

func TestDeliverDropsWhenBufferFull(t *testing.T) {
	h := NewHub(testutil.NopLogger(), 1)
	alice := addClient(h, "user-a")

	h.PushToUser("user-a", model.EventNotification, nil)
	h.PushToUser("user-a", model.EventNotification, nil) // Dropped, not blocked

	recvEnvelope(t, alice)
	assertEmpty(t, alice)
}

package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryJoinAndSnapshot(t *testing.T) {
	r := NewRoomRegistry()
	a := &Client{UserID: "a", Send: make(chan []byte, 1)}
	b := &Client{UserID: "b", Send: make(chan []byte, 1)}

	r.Join("c1", a)
	r.Join("c1", b)
	r.Join("c2", a)

	assert.True(t, r.Contains("c1", a))
	assert.True(t, r.Contains("c1", b))
	assert.True(t, r.Contains("c2", a))
	assert.False(t, r.Contains("c2", b))
	assert.Len(t, r.Snapshot("c1"), 2)
}

func TestRegistryJoinIsIdempotent(t *testing.T) {
	r := NewRoomRegistry()
	a := &Client{UserID: "a", Send: make(chan []byte, 1)}

	r.Join("c1", a)
	r.Join("c1", a)

	assert.Len(t, r.Snapshot("c1"), 1)
}

func TestRegistryLeave(t *testing.T) {
	r := NewRoomRegistry()
	a := &Client{UserID: "a", Send: make(chan []byte, 1)}

	r.Join("c1", a)
	r.Leave("c1", a)

	assert.False(t, r.Contains("c1", a))
	assert.Empty(t, r.Snapshot("c1"))
}

func TestRegistryRemoveClientClearsAllRooms(t *testing.T) {
	r := NewRoomRegistry()
	a := &Client{UserID: "a", Send: make(chan []byte, 1)}
	b := &Client{UserID: "b", Send: make(chan []byte, 1)}

	r.Join("c1", a)
	r.Join("c2", a)
	r.Join("c1", b)

	chatIDs := r.RemoveClient(a)

	assert.ElementsMatch(t, []string{"c1", "c2"}, chatIDs)
	assert.False(t, r.Contains("c1", a))
	assert.False(t, r.Contains("c2", a))
	assert.True(t, r.Contains("c1", b))
}

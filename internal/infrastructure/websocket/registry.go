package websocket

import "sync"

// RoomRegistry tracks which connections are subscribed to which chat
// room. It is injected into the Manager so the in-process map can be
// replaced by a distributed backing store without touching protocol
// logic. All mutations and snapshots go through one lock, so a join or
// leave never races a broadcast over the same room.
type RoomRegistry struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]bool
	clients map[*Client]map[string]bool
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:   make(map[string]map[*Client]bool),
		clients: make(map[*Client]map[string]bool),
	}
}

// Join subscribes client to the room for chatID.
func (r *RoomRegistry) Join(chatID string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[chatID] == nil {
		r.rooms[chatID] = make(map[*Client]bool)
	}
	r.rooms[chatID][client] = true

	if r.clients[client] == nil {
		r.clients[client] = make(map[string]bool)
	}
	r.clients[client][chatID] = true
}

// Leave removes client from the room for chatID.
func (r *RoomRegistry) Leave(chatID string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(chatID, client)
}

// RemoveClient removes client from every room it joined. Called on
// disconnect; returns the chat ids the client was subscribed to.
func (r *RoomRegistry) RemoveClient(client *Client) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var chatIDs []string
	for chatID := range r.clients[client] {
		chatIDs = append(chatIDs, chatID)
		r.leaveLocked(chatID, client)
	}
	return chatIDs
}

// Contains reports whether client is subscribed to chatID's room.
func (r *RoomRegistry) Contains(chatID string, client *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[chatID][client]
}

// Snapshot returns the current members of chatID's room.
func (r *RoomRegistry) Snapshot(chatID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]*Client, 0, len(r.rooms[chatID]))
	for client := range r.rooms[chatID] {
		members = append(members, client)
	}
	return members
}

func (r *RoomRegistry) leaveLocked(chatID string, client *Client) {
	if room, ok := r.rooms[chatID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(r.rooms, chatID)
		}
	}
	if joined, ok := r.clients[client]; ok {
		delete(joined, chatID)
		if len(joined) == 0 {
			delete(r.clients, client)
		}
	}
}

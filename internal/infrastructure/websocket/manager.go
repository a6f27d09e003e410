package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"solgigs/internal/domain/repository"
	"solgigs/internal/infrastructure/ratelimit"
	"solgigs/pkg/logger"
)

// Client represents one WebSocket connection. A user may hold several
// connections (tabs); each is its own Client.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	closeOnce sync.Once
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// Manager bridges connections to the relay: it owns the connected
// client set and drives the event protocol against the injected room
// registry and chat repository.
type Manager struct {
	registry *RoomRegistry
	chatRepo repository.ChatRepository
	limiter  *ratelimit.RateLimiter

	persistTimeout time.Duration
	sendBuffer     int

	mu      sync.Mutex
	clients map[*Client]bool
}

func NewManager(registry *RoomRegistry, chatRepo repository.ChatRepository, persistTimeout time.Duration, sendBuffer int) *Manager {
	if persistTimeout <= 0 {
		persistTimeout = 10 * time.Second
	}
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	return &Manager{
		registry:       registry,
		chatRepo:       chatRepo,
		limiter:        limiter,
		persistTimeout: persistTimeout,
		sendBuffer:     sendBuffer,
		clients:        make(map[*Client]bool),
	}
}

// ConfigureSendRate overrides the per-user message rate. max messages
// may be sent in a burst, refilling one per interval.
func (m *Manager) ConfigureSendRate(max int, interval time.Duration) {
	m.limiter.SetLimit("send_message", max, 1, interval)
}

// NewClient registers a connection and returns its Client handle.
func (m *Manager) NewClient(userID string, conn *websocket.Conn) *Client {
	client := &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, m.sendBuffer),
	}

	m.mu.Lock()
	m.clients[client] = true
	m.mu.Unlock()

	logger.Info("Client connected: %s", userID)
	return client
}

// DropClient removes a client from all rooms and the connected set.
// Safe to call more than once.
func (m *Manager) DropClient(client *Client) {
	m.mu.Lock()
	_, ok := m.clients[client]
	delete(m.clients, client)
	m.mu.Unlock()

	if !ok {
		return
	}

	chatIDs := m.registry.RemoveClient(client)
	client.closeSend()
	logger.Info("Client disconnected: %s (left %d rooms)", client.UserID, len(chatIDs))
}

// sendEvent delivers an event to one client. A client whose send
// buffer is full is considered dead and dropped.
func (m *Manager) sendEvent(client *Client, event OutEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal %s event for client %s: %v", event.Type, client.UserID, err)
		return
	}

	select {
	case client.Send <- payload:
	default:
		logger.Warn("Client %s send buffer full, dropping connection", client.UserID)
		m.DropClient(client)
	}
}

// broadcastToRoom emits an event to every room member, skipping except
// when it is non-nil.
func (m *Manager) broadcastToRoom(chatID string, event OutEvent, except *Client) {
	for _, member := range m.registry.Snapshot(chatID) {
		if member == except {
			continue
		}
		m.sendEvent(member, event)
	}
}

// ReadPump reads frames off the connection and feeds them to the relay
// one at a time, so events from a single connection are processed in
// receipt order.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.DropClient(c)
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Client %s read error: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientEvent(c, payload)
	}
}

// WritePump drains the send channel onto the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("Client %s write error: %v", c.UserID, err)
			return
		}
	}
}

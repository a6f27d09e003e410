package chatclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"solgigs/internal/domain/entity"
	ws "solgigs/internal/infrastructure/websocket"
	"solgigs/pkg/logger"
)

// Reconnect backoff bounds.
const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Client maintains the websocket session with the gateway: it dials,
// feeds relay events into the Store, and on connection loss reconnects
// with exponential backoff, re-joining every previously joined chat.
type Client struct {
	endpoint string
	token    string
	store    *Store

	mu     sync.Mutex
	conn   *gorillaws.Conn
	joined map[string]bool
}

// NewClient builds a client for the gateway at endpoint (e.g.
// "wss://host/ws"). token authenticates the handshake.
func NewClient(endpoint, token, userID string, uploader Uploader, sendTimeout time.Duration) *Client {
	c := &Client{
		endpoint: endpoint,
		token:    token,
		joined:   make(map[string]bool),
	}
	c.store = NewStore(userID, uploader, c, sendTimeout)
	return c
}

// Store exposes the reconciliation store backing this client.
func (c *Client) Store() *Store {
	return c.store
}

// Join subscribes to a chat room and remembers it for automatic
// re-join after a reconnect.
func (c *Client) Join(chatID string) error {
	c.mu.Lock()
	c.joined[chatID] = true
	c.mu.Unlock()

	return c.Emit(ws.OutEvent{
		Type:      ws.EventJoinChat,
		ChatID:    chatID,
		Data:      ws.JoinChatData{ChatID: chatID, UserID: c.store.userID},
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Emit sends one event over the current connection.
func (c *Client) Emit(event ws.OutEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// gorilla allows one concurrent writer; the lock also pins the
	// connection against a concurrent reconnect.
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteMessage(gorillaws.TextMessage, payload)
}

// Run dials and services the connection until ctx is cancelled,
// reconnecting with exponential backoff on any transport failure.
func (c *Client) Run(ctx context.Context) {
	backoff := initialBackoff

	for {
		conn, err := c.dial(ctx)
		if err != nil {
			logger.Warn("Chat dial failed: %v (retrying in %v)", err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = initialBackoff

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.store.SetConnected(true)

		c.rejoinAll()
		c.readLoop(ctx, conn)

		c.store.SetConnected(false)
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (c *Client) dial(ctx context.Context) (*gorillaws.Conn, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()

	conn, _, err := gorillaws.DefaultDialer.DialContext(ctx, u.String(), nil)
	return conn, err
}

func (c *Client) rejoinAll() {
	c.mu.Lock()
	chatIDs := make([]string, 0, len(c.joined))
	for chatID := range c.joined {
		chatIDs = append(chatIDs, chatID)
	}
	c.mu.Unlock()

	for _, chatID := range chatIDs {
		if err := c.Join(chatID); err != nil {
			logger.Warn("Re-join of chat %s failed: %v", chatID, err)
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *gorillaws.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			logger.Warn("Chat connection lost: %v", err)
			return
		}
		c.dispatch(payload)
	}
}

func (c *Client) dispatch(payload []byte) {
	var event ws.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Warn("Unparseable event from gateway: %v", err)
		return
	}

	switch event.Type {
	case ws.EventNewMessage:
		var message entity.Message
		if err := json.Unmarshal(event.Data, &message); err != nil {
			logger.Warn("Bad new-message payload: %v", err)
			return
		}
		c.store.ApplyNewMessage(message)

	case ws.EventMessageSaved:
		var data ws.MessageSavedData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.SavedMessage == nil {
			logger.Warn("Bad message-saved payload: %v", err)
			return
		}
		c.store.ApplyMessageSaved(data.TempID, *data.SavedMessage)

	case ws.EventMessageFailed:
		var data ws.MessageFailedData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			logger.Warn("Bad message-failed payload: %v", err)
			return
		}
		c.store.ApplyMessageFailed(data.TempID)

	case ws.EventError:
		var data ws.ErrorData
		if err := json.Unmarshal(event.Data, &data); err == nil {
			logger.Warn("Gateway error: %s", data.Reason)
		}

	default:
		logger.Debug("Ignoring event type %q", event.Type)
	}
}

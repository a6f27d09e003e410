package websocket

import (
	"encoding/json"
	"time"

	"solgigs/internal/domain/entity"
)

// Wire event types exchanged between gateway and clients.
const (
	EventJoinChat      = "join-chat"
	EventLeaveChat     = "leave-chat"
	EventSendMessage   = "send-message"
	EventNewMessage    = "new-message"
	EventMessageSaved  = "message-saved"
	EventMessageFailed = "message-failed"
	EventError         = "error"
)

// Event is the envelope for every frame on the wire.
type Event struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	ChatID    string          `json:"chat_id,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// OutEvent is the outgoing counterpart; Data is marshalled as-is.
type OutEvent struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	ChatID    string      `json:"chat_id,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type JoinChatData struct {
	ChatID string `json:"chat_id"`
	UserID string `json:"user_id"`
}

type LeaveChatData struct {
	ChatID string `json:"chat_id"`
}

type SendMessageData struct {
	Message *entity.Message `json:"message"`
	ChatID  string          `json:"chat_id"`
}

type MessageSavedData struct {
	TempID       string          `json:"temp_id"`
	SavedMessage *entity.Message `json:"saved_message"`
}

type MessageFailedData struct {
	TempID string `json:"temp_id"`
}

type ErrorData struct {
	Reason string `json:"reason"`
}

func newOutEvent(eventType string, data interface{}, chatID string) OutEvent {
	return OutEvent{
		Type:      eventType,
		Data:      data,
		ChatID:    chatID,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

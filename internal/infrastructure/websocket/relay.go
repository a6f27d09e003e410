package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"solgigs/internal/domain/entity"
	"solgigs/pkg/logger"
)

// HandleClientEvent dispatches one incoming frame. It is called from
// the connection's read loop, so per-connection events are handled
// strictly in receipt order.
func (m *Manager) HandleClientEvent(client *Client, payload []byte) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Warn("Client %s sent an unparseable frame: %v", client.UserID, err)
		m.sendError(client, "invalid event format")
		return
	}

	switch event.Type {
	case EventJoinChat:
		m.handleJoinChat(client, event)
	case EventLeaveChat:
		m.handleLeaveChat(client, event)
	case EventSendMessage:
		m.handleSendMessage(client, event)
	default:
		m.sendError(client, fmt.Sprintf("unknown event type %q", event.Type))
	}
}

// handleJoinChat subscribes the connection to a chat room, but only if
// the chat exists and the connection's user is its buyer or seller. A
// denied join is reported to the requester alone and leaves the
// connection usable.
func (m *Manager) handleJoinChat(client *Client, event Event) {
	var data JoinChatData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		m.sendError(client, "invalid join-chat payload")
		return
	}
	if data.ChatID == "" {
		data.ChatID = event.ChatID
	}
	if data.ChatID == "" {
		m.sendError(client, "join-chat requires a chat_id")
		return
	}
	if data.UserID != "" && data.UserID != client.UserID {
		m.sendError(client, "join denied: identity mismatch")
		return
	}

	if allowed, _ := m.limiter.Allow(client.UserID, "join_chat"); !allowed {
		m.sendError(client, "too many join attempts, slow down")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.persistTimeout)
	defer cancel()

	chat, err := m.chatRepo.GetByID(ctx, data.ChatID)
	if err != nil {
		logger.Warn("Join denied for %s on chat %s: %v", client.UserID, data.ChatID, err)
		m.sendError(client, "join denied: chat not found")
		return
	}
	if !chat.HasParticipant(client.UserID) {
		logger.Warn("Join denied for %s on chat %s: not a participant", client.UserID, data.ChatID)
		m.sendError(client, "join denied: not a participant")
		return
	}

	m.registry.Join(data.ChatID, client)
	logger.Info("Client %s joined chat %s", client.UserID, data.ChatID)
}

func (m *Manager) handleLeaveChat(client *Client, event Event) {
	var data LeaveChatData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		m.sendError(client, "invalid leave-chat payload")
		return
	}
	if data.ChatID == "" {
		data.ChatID = event.ChatID
	}
	if data.ChatID == "" {
		m.sendError(client, "leave-chat requires a chat_id")
		return
	}

	m.registry.Leave(data.ChatID, client)
	logger.Info("Client %s left chat %s", client.UserID, data.ChatID)
}

// handleSendMessage runs the relay state machine for one message:
// admission, optimistic broadcast to the rest of the room, durable
// persistence, then reconciliation of the whole room with the saved
// record or a failure signal. Persistence happens inline, after the
// broadcast; it is the only step that suspends this connection's loop,
// which keeps persistence attempts in submission order per sender.
func (m *Manager) handleSendMessage(client *Client, event Event) {
	var data SendMessageData
	if err := json.Unmarshal(event.Data, &data); err != nil || data.Message == nil {
		m.sendError(client, "invalid send-message payload")
		return
	}

	chatID := data.ChatID
	if chatID == "" {
		chatID = data.Message.ChatID
	}
	tempID := data.Message.ID

	// Room membership established by join-chat is the authorization
	// boundary for sends.
	if !m.registry.Contains(chatID, client) {
		m.sendError(client, "not joined to this chat")
		return
	}

	if allowed, wait := m.limiter.Allow(client.UserID, "send_message"); !allowed {
		logger.Warn("Rate limited send from %s (wait %v)", client.UserID, wait)
		m.sendError(client, "sending too fast, slow down")
		return
	}

	outgoing := entity.Message{
		ID:             tempID,
		ChatID:         chatID,
		SenderID:       client.UserID,
		Content:        data.Message.Content,
		AttachmentURLs: data.Message.AttachmentURLs,
		Status:         entity.MessageStatusSending,
		CreatedAt:      time.Now().UTC(),
	}

	// Admission: a message must carry text or media. Rejected before
	// anything is broadcast.
	if outgoing.IsEmpty() {
		m.sendError(client, "message must contain text or attachments")
		return
	}
	if tempID == "" {
		m.sendError(client, "message is missing a temporary id")
		return
	}

	// Optimistic broadcast to the rest of the room. The sender already
	// has its local copy.
	m.broadcastToRoom(chatID, newOutEvent(EventNewMessage, &outgoing, chatID), client)

	saved, err := m.persistMessage(chatID, client.UserID, &outgoing)
	if err != nil {
		logger.Error("Persist failed for message %s in chat %s: %v", tempID, chatID, err)
		// The whole room is told, so members that received the
		// optimistic broadcast can drop the dangling entry.
		m.broadcastToRoom(chatID, newOutEvent(EventMessageFailed, MessageFailedData{TempID: tempID}, chatID), nil)
		return
	}

	m.broadcastToRoom(chatID, newOutEvent(EventMessageSaved, MessageSavedData{
		TempID:       tempID,
		SavedMessage: saved,
	}, chatID), nil)
}

// persistMessage writes the durable record and updates the chat's
// last-message bookkeeping. The returned message carries the
// server-assigned id and timestamp.
func (m *Manager) persistMessage(chatID, senderID string, outgoing *entity.Message) (*entity.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.persistTimeout)
	defer cancel()

	saved := &entity.Message{
		ChatID:         chatID,
		SenderID:       senderID,
		Content:        outgoing.Content,
		AttachmentURLs: outgoing.AttachmentURLs,
		Status:         entity.MessageStatusSent,
	}
	if err := m.chatRepo.CreateMessage(ctx, saved); err != nil {
		return nil, err
	}

	// Last-message and unread bookkeeping is best effort; the message
	// itself is already durable.
	chat, err := m.chatRepo.GetByID(ctx, chatID)
	if err == nil {
		chat.LastMessage = saved.Content
		chat.LastMessageAt = saved.CreatedAt
		if chat.UnreadCount == nil {
			chat.UnreadCount = make(map[string]int)
		}
		if other := chat.OtherParticipant(senderID); other != "" {
			chat.UnreadCount[other]++
		}
		if err := m.chatRepo.Update(ctx, chat); err != nil {
			logger.Warn("Failed to update chat %s after message %s: %v", chatID, saved.ID, err)
		}
	} else {
		logger.Warn("Failed to load chat %s for bookkeeping: %v", chatID, err)
	}

	return saved, nil
}

func (m *Manager) sendError(client *Client, reason string) {
	m.sendEvent(client, newOutEvent(EventError, ErrorData{Reason: reason}, ""))
}

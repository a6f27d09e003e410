package chatclient

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"solgigs/internal/domain/entity"
	ws "solgigs/internal/infrastructure/websocket"
)

// Uploader stores one attachment and returns its durable URL.
type Uploader interface {
	Upload(ctx context.Context, file File) (string, error)
}

// Emitter delivers an event to the gateway.
type Emitter interface {
	Emit(event ws.OutEvent) error
}

// File is one attachment candidate for Submit.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Store holds a client's ordered message list and translates relay
// events into message lifecycle transitions (sending/sent/failed).
// Relay events and the submit path are the only legal ways state
// changes.
type Store struct {
	mu        sync.Mutex
	userID    string
	messages  []entity.Message
	connected bool

	uploader    Uploader
	emitter     Emitter
	sendTimeout time.Duration
	timers      map[string]*time.Timer
}

// DefaultSendTimeout bounds how long a message may sit in "sending"
// before the store forces it to "failed".
const DefaultSendTimeout = 15 * time.Second

func NewStore(userID string, uploader Uploader, emitter Emitter, sendTimeout time.Duration) *Store {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Store{
		userID:      userID,
		uploader:    uploader,
		emitter:     emitter,
		sendTimeout: sendTimeout,
		timers:      make(map[string]*time.Timer),
	}
}

// Submit validates and sends a message to chatID. Attachments are
// uploaded before the optimistic entry is appended, so a failed upload
// leaves no phantom message; validation failures return before any
// network call. Returns the temporary id of the optimistic entry.
func (s *Store) Submit(ctx context.Context, chatID, text string, files []File) (string, error) {
	if strings.TrimSpace(text) == "" && len(files) == 0 {
		return "", fmt.Errorf("message must contain text or attachments")
	}
	for _, f := range files {
		if !entity.AllowedAttachmentType(f.ContentType) {
			return "", fmt.Errorf("file %q: type %s is not allowed", f.Name, f.ContentType)
		}
		if f.Size > entity.MaxAttachmentSize {
			return "", fmt.Errorf("file %q exceeds the 10 MiB limit", f.Name)
		}
	}

	var urls []string
	for _, f := range files {
		url, err := s.uploader.Upload(ctx, f)
		if err != nil {
			return "", fmt.Errorf("upload %q: %w", f.Name, err)
		}
		urls = append(urls, url)
	}

	message := entity.Message{
		ID:             uuid.New().String(),
		ChatID:         chatID,
		SenderID:       s.userID,
		Content:        text,
		AttachmentURLs: urls,
		Status:         entity.MessageStatusSending,
		CreatedAt:      time.Now().UTC(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.armTimeoutLocked(message.ID)
	s.mu.Unlock()

	err := s.emitter.Emit(ws.OutEvent{
		Type:      ws.EventSendMessage,
		ChatID:    chatID,
		Data:      ws.SendMessageData{Message: &message, ChatID: chatID},
		Timestamp: message.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		s.ApplyMessageFailed(message.ID)
		return message.ID, fmt.Errorf("send: %w", err)
	}

	return message.ID, nil
}

// ApplyNewMessage appends a message broadcast for another participant.
func (s *Store) ApplyNewMessage(message entity.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Own optimistic entries come back only through message-saved.
	if s.indexOfLocked(message.ID) >= 0 {
		return
	}
	s.messages = append(s.messages, message)
}

// ApplyMessageSaved replaces the temporary entry with the authoritative
// persisted record. Applying the same event twice is a no-op.
func (s *Store) ApplyMessageSaved(tempID string, saved entity.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarmTimeoutLocked(tempID)

	if i := s.indexOfLocked(tempID); i >= 0 {
		s.messages[i] = saved
		return
	}
	// Already reconciled, or this member only saw the optimistic
	// broadcast under the temp id of another sender.
	if s.indexOfLocked(saved.ID) >= 0 {
		return
	}
	s.messages = append(s.messages, saved)
}

// ApplyMessageFailed marks the caller's own entry failed (content kept
// for resubmission) and removes another sender's dangling optimistic
// entry.
func (s *Store) ApplyMessageFailed(tempID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarmTimeoutLocked(tempID)

	i := s.indexOfLocked(tempID)
	if i < 0 {
		return
	}
	if s.messages[i].SenderID == s.userID {
		s.messages[i].Status = entity.MessageStatusFailed
		return
	}
	s.messages = append(s.messages[:i], s.messages[i+1:]...)
}

// SetConnected records connectivity; the UI disables submission and
// shows a reconnecting indicator while false.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

func (s *Store) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Messages returns a copy of the current ordered message list.
func (s *Store) Messages() []entity.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) indexOfLocked(id string) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}

// armTimeoutLocked forces sending → failed when no saved/failed event
// arrives in time; a hung persistence call must not strand the entry.
func (s *Store) armTimeoutLocked(tempID string) {
	s.timers[tempID] = time.AfterFunc(s.sendTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.timers, tempID)
		if i := s.indexOfLocked(tempID); i >= 0 && s.messages[i].Status == entity.MessageStatusSending {
			s.messages[i].Status = entity.MessageStatusFailed
		}
	})
}

func (s *Store) disarmTimeoutLocked(tempID string) {
	if t, ok := s.timers[tempID]; ok {
		t.Stop()
		delete(s.timers, tempID)
	}
}

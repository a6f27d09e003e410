package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solgigs/internal/domain/entity"
	"solgigs/internal/domain/repository"
	"solgigs/pkg/errors"
)

// fakeChatRepository is an in-memory ChatRepository with a switchable
// write failure.
type fakeChatRepository struct {
	mu         sync.Mutex
	chats      map[string]*entity.Chat
	messages   map[string][]*entity.Message
	failCreate bool
}

func newFakeChatRepository() *fakeChatRepository {
	return &fakeChatRepository{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.Message),
	}
}

var _ repository.ChatRepository = (*fakeChatRepository)(nil)

func (r *fakeChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	clone := *chat
	return &clone, nil
}

func (r *fakeChatRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, chat := range r.chats {
		if chat.OrderID == orderID {
			clone := *chat
			return &clone, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	return nil, 0, nil
}

func (r *fakeChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.Internal("Failed to create message", fmt.Errorf("storage down"))
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
	r.messages[message.ChatID] = append(r.messages[message.ChatID], message)
	return nil
}

func (r *fakeChatRepository) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[chatID]
	return msgs, int64(len(msgs)), nil
}

func newTestManager(repo *fakeChatRepository) *Manager {
	return NewManager(NewRoomRegistry(), repo, time.Second, 16)
}

func seedChat(repo *fakeChatRepository, chatID, buyerID, sellerID string) {
	repo.Create(context.Background(), &entity.Chat{
		ID:       chatID,
		OrderID:  "order-" + chatID,
		BuyerID:  buyerID,
		SellerID: sellerID,
	})
}

func joinChat(t *testing.T, m *Manager, client *Client, chatID string) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"type": EventJoinChat,
		"data": JoinChatData{ChatID: chatID, UserID: client.UserID},
	})
	require.NoError(t, err)
	m.HandleClientEvent(client, payload)
}

func sendMessage(t *testing.T, m *Manager, client *Client, chatID, tempID, content string, urls []string) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"type": EventSendMessage,
		"data": SendMessageData{
			ChatID: chatID,
			Message: &entity.Message{
				ID:             tempID,
				ChatID:         chatID,
				SenderID:       client.UserID,
				Content:        content,
				AttachmentURLs: urls,
				Status:         entity.MessageStatusSending,
			},
		},
	})
	require.NoError(t, err)
	m.HandleClientEvent(client, payload)
}

func recvEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case payload := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	default:
		t.Fatal("expected an event, got none")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case payload := <-client.Send:
		t.Fatalf("expected no event, got %s", payload)
	default:
	}
}

func TestJoinAuthorizedParticipant(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "buyer", "seller")
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	joinChat(t, m, buyer, "c1")

	assert.True(t, m.registry.Contains("c1", buyer))
	assertNoEvent(t, buyer)
}

func TestJoinDeniedForNonParticipant(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "buyer", "seller")
	m := newTestManager(repo)

	stranger := m.NewClient("stranger", nil)
	joinChat(t, m, stranger, "c1")

	event := recvEvent(t, stranger)
	assert.Equal(t, EventError, event.Type)
	assert.False(t, m.registry.Contains("c1", stranger))
}

func TestJoinDeniedForMissingChat(t *testing.T) {
	repo := newFakeChatRepository()
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	joinChat(t, m, buyer, "nope")

	event := recvEvent(t, buyer)
	assert.Equal(t, EventError, event.Type)
	assert.False(t, m.registry.Contains("nope", buyer))
}

func TestSendRequiresRoomMembership(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "buyer", "seller")
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	sendMessage(t, m, buyer, "c1", "tmp-1", "hello", nil)

	event := recvEvent(t, buyer)
	assert.Equal(t, EventError, event.Type)
	assert.Empty(t, repo.messages["c1"])
}

func TestSendRejectsEmptyMessageBeforeBroadcast(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "buyer", "seller")
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	seller := m.NewClient("seller", nil)
	joinChat(t, m, buyer, "c1")
	joinChat(t, m, seller, "c1")

	sendMessage(t, m, buyer, "c1", "tmp-1", "   ", nil)

	event := recvEvent(t, buyer)
	assert.Equal(t, EventError, event.Type)
	assertNoEvent(t, seller)
	assert.Empty(t, repo.messages["c1"])
}

func TestSendBroadcastsThenConfirms(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "buyer", "seller")
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	seller := m.NewClient("seller", nil)
	joinChat(t, m, buyer, "c1")
	joinChat(t, m, seller, "c1")

	sendMessage(t, m, buyer, "c1", "tmp-1", "hello", nil)

	// The other room member first sees the optimistic broadcast.
	event := recvEvent(t, seller)
	require.Equal(t, EventNewMessage, event.Type)
	var optimistic entity.Message
	require.NoError(t, json.Unmarshal(event.Data, &optimistic))
	assert.Equal(t, "tmp-1", optimistic.ID)
	assert.Equal(t, "hello", optimistic.Content)
	assert.Equal(t, entity.MessageStatusSending, optimistic.Status)

	// Then both members get the authoritative record.
	for _, client := range []*Client{buyer, seller} {
		event = recvEvent(t, client)
		require.Equal(t, EventMessageSaved, event.Type)
		var saved MessageSavedData
		require.NoError(t, json.Unmarshal(event.Data, &saved))
		assert.Equal(t, "tmp-1", saved.TempID)
		require.NotNil(t, saved.SavedMessage)
		assert.NotEqual(t, "tmp-1", saved.SavedMessage.ID)
		assert.Equal(t, entity.MessageStatusSent, saved.SavedMessage.Status)
		assert.Equal(t, "buyer", saved.SavedMessage.SenderID)
	}

	require.Len(t, repo.messages["c1"], 1)
}

func TestSendPreservesSubmissionOrder(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "buyer", "seller")
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	seller := m.NewClient("seller", nil)
	joinChat(t, m, buyer, "c1")
	joinChat(t, m, seller, "c1")

	sendMessage(t, m, buyer, "c1", "tmp-1", "first", nil)
	sendMessage(t, m, buyer, "c1", "tmp-2", "second", nil)

	var newMessageTemps []string
	for i := 0; i < 4; i++ {
		event := recvEvent(t, seller)
		if event.Type != EventNewMessage {
			continue
		}
		var message entity.Message
		require.NoError(t, json.Unmarshal(event.Data, &message))
		newMessageTemps = append(newMessageTemps, message.ID)
	}

	assert.Equal(t, []string{"tmp-1", "tmp-2"}, newMessageTemps)
}

func TestSendPersistFailureReportedToRoom(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "buyer", "seller")
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	seller := m.NewClient("seller", nil)
	joinChat(t, m, buyer, "c1")
	joinChat(t, m, seller, "c1")

	repo.failCreate = true
	sendMessage(t, m, buyer, "c1", "tmp-1", "doomed", nil)

	// Sender gets only the failure signal.
	event := recvEvent(t, buyer)
	require.Equal(t, EventMessageFailed, event.Type)
	var failed MessageFailedData
	require.NoError(t, json.Unmarshal(event.Data, &failed))
	assert.Equal(t, "tmp-1", failed.TempID)
	assertNoEvent(t, buyer)

	// The other member saw the optimistic broadcast and then the
	// failure, so it can drop the dangling entry.
	event = recvEvent(t, seller)
	assert.Equal(t, EventNewMessage, event.Type)
	event = recvEvent(t, seller)
	assert.Equal(t, EventMessageFailed, event.Type)

	assert.Empty(t, repo.messages["c1"])
}

func TestFailureIsolation(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "alice", "bob")
	m := newTestManager(repo)

	alice := m.NewClient("alice", nil)
	bob := m.NewClient("bob", nil)
	joinChat(t, m, alice, "c1")
	joinChat(t, m, bob, "c1")

	repo.failCreate = true
	sendMessage(t, m, alice, "c1", "tmp-a", "fails", nil)
	repo.failCreate = false
	sendMessage(t, m, bob, "c1", "tmp-b", "fine", nil)

	// Bob's own send confirms even though Alice's failed.
	sawSaved := false
	for i := 0; i < 4; i++ {
		select {
		case payload := <-bob.Send:
			var event Event
			require.NoError(t, json.Unmarshal(payload, &event))
			if event.Type == EventMessageSaved {
				var saved MessageSavedData
				require.NoError(t, json.Unmarshal(event.Data, &saved))
				if saved.TempID == "tmp-b" {
					sawSaved = true
				}
			}
		default:
		}
	}
	assert.True(t, sawSaved)
	require.Len(t, repo.messages["c1"], 1)
	assert.Equal(t, "bob", repo.messages["c1"][0].SenderID)
}

func TestDisconnectRemovesFromRooms(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "buyer", "seller")
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	seller := m.NewClient("seller", nil)
	joinChat(t, m, buyer, "c1")
	joinChat(t, m, seller, "c1")

	m.DropClient(seller)
	assert.False(t, m.registry.Contains("c1", seller))

	// Broadcast after the drop only reaches the remaining member.
	sendMessage(t, m, buyer, "c1", "tmp-1", "still here", nil)
	event := recvEvent(t, buyer)
	assert.Equal(t, EventMessageSaved, event.Type)
}

func TestUnknownEventType(t *testing.T) {
	repo := newFakeChatRepository()
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	m.HandleClientEvent(buyer, []byte(`{"type":"bogus"}`))

	event := recvEvent(t, buyer)
	assert.Equal(t, EventError, event.Type)
}

func TestJoinIdentityMismatch(t *testing.T) {
	repo := newFakeChatRepository()
	seedChat(repo, "c1", "buyer", "seller")
	m := newTestManager(repo)

	buyer := m.NewClient("buyer", nil)
	payload, err := json.Marshal(map[string]interface{}{
		"type": EventJoinChat,
		"data": JoinChatData{ChatID: "c1", UserID: "seller"},
	})
	require.NoError(t, err)
	m.HandleClientEvent(buyer, payload)

	event := recvEvent(t, buyer)
	assert.Equal(t, EventError, event.Type)
	assert.False(t, m.registry.Contains("c1", buyer))
}

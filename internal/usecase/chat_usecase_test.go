package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solgigs/internal/domain/entity"
	"solgigs/internal/domain/repository"
	"solgigs/pkg/errors"
)

type memChatRepository struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
}

func newMemChatRepository() *memChatRepository {
	return &memChatRepository{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.Message),
	}
}

var _ repository.ChatRepository = (*memChatRepository)(nil)

func (r *memChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	r.chats[chat.ID] = chat
	return nil
}

func (r *memChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (r *memChatRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, chat := range r.chats {
		if chat.OrderID == orderID {
			return chat, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *memChatRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			out = append(out, chat)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[chat.ID] = chat
	return nil
}

func (r *memChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	r.messages[message.ChatID] = append(r.messages[message.ChatID], message)
	return nil
}

func (r *memChatRepository) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[chatID]
	return msgs, int64(len(msgs)), nil
}

type memUserRepository struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[string]*entity.User)}
}

var _ repository.UserRepository = (*memUserRepository)(nil)

func (r *memUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *memUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func TestCreateChatForOrder(t *testing.T) {
	chatRepo := newMemChatRepository()
	userRepo := newMemUserRepository()
	uc := NewChatUseCase(chatRepo, userRepo)

	order := &entity.Order{ID: "o1", BuyerID: "buyer", SellerID: "seller"}

	chat, err := uc.CreateChatForOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "o1", chat.OrderID)
	assert.Equal(t, "buyer", chat.BuyerID)
	assert.Equal(t, "seller", chat.SellerID)

	// A second call for the same order returns the existing chat.
	again, err := uc.CreateChatForOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, again.ID)
	assert.Len(t, chatRepo.chats, 1)
}

func TestCreateChatForOrderRejectsSelfDeal(t *testing.T) {
	uc := NewChatUseCase(newMemChatRepository(), newMemUserRepository())

	_, err := uc.CreateChatForOrder(context.Background(), &entity.Order{ID: "o1", BuyerID: "u", SellerID: "u"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestGetChatMessagesRequiresMembership(t *testing.T) {
	chatRepo := newMemChatRepository()
	uc := NewChatUseCase(chatRepo, newMemUserRepository())

	chatRepo.Create(context.Background(), &entity.Chat{ID: "c1", OrderID: "o1", BuyerID: "buyer", SellerID: "seller"})

	_, _, err := uc.GetChatMessages(context.Background(), "stranger", "c1", 20, 0)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestMarkChatAsReadResetsCounter(t *testing.T) {
	chatRepo := newMemChatRepository()
	uc := NewChatUseCase(chatRepo, newMemUserRepository())

	chatRepo.Create(context.Background(), &entity.Chat{
		ID: "c1", OrderID: "o1", BuyerID: "buyer", SellerID: "seller",
		UnreadCount: map[string]int{"buyer": 3},
	})

	require.NoError(t, uc.MarkChatAsRead(context.Background(), "buyer", "c1"))

	chat, err := chatRepo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Zero(t, chat.UnreadCount["buyer"])
}

func TestGetUserChatsAttachesCounterparty(t *testing.T) {
	chatRepo := newMemChatRepository()
	userRepo := newMemUserRepository()
	uc := NewChatUseCase(chatRepo, userRepo)

	userRepo.Create(context.Background(), &entity.User{ID: "seller", Username: "sella"})
	chatRepo.Create(context.Background(), &entity.Chat{ID: "c1", OrderID: "o1", BuyerID: "buyer", SellerID: "seller"})

	chats, total, err := uc.GetUserChats(context.Background(), "buyer", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, chats, 1)
	require.NotNil(t, chats[0].OtherUser)
	assert.Equal(t, "sella", chats[0].OtherUser.Username)
}

package usecase

import (
	"context"
	"time"

	"solgigs/internal/domain/entity"
	"solgigs/internal/domain/repository"
	"solgigs/pkg/errors"
	"solgigs/pkg/logger"
)

type ChatUseCase struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

func NewChatUseCase(chatRepo repository.ChatRepository, userRepo repository.UserRepository) *ChatUseCase {
	return &ChatUseCase{
		chatRepo: chatRepo,
		userRepo: userRepo,
	}
}

type ChatResponse struct {
	*entity.Chat
	OtherUser *entity.User `json:"other_user,omitempty"`
}

type MessageResponse struct {
	*entity.Message
	Sender *entity.User `json:"sender,omitempty"`
}

// CreateChatForOrder creates the single chat bound to an order. Called
// by the order flow; membership is fixed to the order's buyer and
// seller and never changes afterwards.
func (uc *ChatUseCase) CreateChatForOrder(ctx context.Context, order *entity.Order) (*entity.Chat, error) {
	if order.BuyerID == order.SellerID {
		return nil, errors.BadRequest("Buyer and seller must be different users", nil)
	}

	if existing, err := uc.chatRepo.GetByOrderID(ctx, order.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	chat := &entity.Chat{
		OrderID:       order.ID,
		BuyerID:       order.BuyerID,
		SellerID:      order.SellerID,
		UnreadCount:   make(map[string]int),
		LastMessageAt: time.Now(),
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		logger.Error("Failed to create chat for order %s: %v", order.ID, err)
		return nil, err
	}

	return chat, nil
}

// GetUserChats lists the chats the user participates in, newest
// activity first, with the counterparty profile attached.
func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string, limit, offset int) ([]*ChatResponse, int64, error) {
	chats, total, err := uc.chatRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*ChatResponse, 0, len(chats))
	for _, chat := range chats {
		resp := &ChatResponse{Chat: chat}
		if otherID := chat.OtherParticipant(userID); otherID != "" {
			other, err := uc.userRepo.GetByID(ctx, otherID)
			if err != nil {
				logger.Warn("Failed to load counterparty %s for chat %s: %v", otherID, chat.ID, err)
			} else {
				resp.OtherUser = other
			}
		}
		responses = append(responses, resp)
	}

	return responses, total, nil
}

func (uc *ChatUseCase) GetChatByID(ctx context.Context, userID, chatID string) (*ChatResponse, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("User is not a participant in this chat", nil)
	}

	resp := &ChatResponse{Chat: chat}
	if otherID := chat.OtherParticipant(userID); otherID != "" {
		if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
			resp.OtherUser = other
		}
	}
	return resp, nil
}

// GetChatMessages returns the persisted message history, newest first.
func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string, limit, offset int) ([]*MessageResponse, int64, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, 0, err
	}
	if !chat.HasParticipant(userID) {
		return nil, 0, errors.Forbidden("User is not a participant in this chat", nil)
	}

	messages, total, err := uc.chatRepo.GetMessagesByChat(ctx, chatID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	senders := make(map[string]*entity.User)
	responses := make([]*MessageResponse, 0, len(messages))
	for _, message := range messages {
		resp := &MessageResponse{Message: message}
		if sender, ok := senders[message.SenderID]; ok {
			resp.Sender = sender
		} else if sender, err := uc.userRepo.GetByID(ctx, message.SenderID); err == nil {
			senders[message.SenderID] = sender
			resp.Sender = sender
		}
		responses = append(responses, resp)
	}

	return responses, total, nil
}

func (uc *ChatUseCase) MarkChatAsRead(ctx context.Context, userID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(userID) {
		return errors.Forbidden("User is not a participant in this chat", nil)
	}

	if chat.UnreadCount == nil || chat.UnreadCount[userID] == 0 {
		return nil
	}

	chat.UnreadCount[userID] = 0
	return uc.chatRepo.Update(ctx, chat)
}

package usecase

import (
	"context"

	"solgigs/internal/domain/entity"
	"solgigs/internal/domain/repository"
	"solgigs/pkg/errors"
	"solgigs/pkg/logger"
)

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	gigRepo     repository.GigRepository
	chatUseCase *ChatUseCase
}

func NewOrderUseCase(orderRepo repository.OrderRepository, gigRepo repository.GigRepository, chatUseCase *ChatUseCase) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		gigRepo:     gigRepo,
		chatUseCase: chatUseCase,
	}
}

// CreateOrder places an order for a gig and opens the order's chat
// between buyer and seller.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, buyerID, gigID string) (*entity.Order, error) {
	gig, err := uc.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig.SellerID == buyerID {
		return nil, errors.BadRequest("You cannot order your own gig", nil)
	}
	if gig.Status != "active" {
		return nil, errors.BadRequest("Gig is not available for ordering", nil)
	}

	order := &entity.Order{
		GigID:    gig.ID,
		BuyerID:  buyerID,
		SellerID: gig.SellerID,
		PriceSOL: gig.PriceSOL,
		Status:   entity.OrderStatusPending,
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	chat, err := uc.chatUseCase.CreateChatForOrder(ctx, order)
	if err != nil {
		logger.Error("Order %s created but chat creation failed: %v", order.ID, err)
		return nil, err
	}

	order.ChatID = chat.ID
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		logger.Warn("Failed to attach chat %s to order %s: %v", chat.ID, order.ID, err)
	}

	return order, nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID && order.SellerID != userID {
		return nil, errors.Forbidden("User is not a party to this order", nil)
	}
	return order, nil
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error) {
	return uc.orderRepo.ListByUserID(ctx, userID, limit, offset)
}

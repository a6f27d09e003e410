package usecase

import (
	"context"

	"solgigs/internal/domain/entity"
	"solgigs/internal/domain/repository"
	"solgigs/pkg/errors"
)

type GigUseCase struct {
	gigRepo  repository.GigRepository
	userRepo repository.UserRepository
}

func NewGigUseCase(gigRepo repository.GigRepository, userRepo repository.UserRepository) *GigUseCase {
	return &GigUseCase{
		gigRepo:  gigRepo,
		userRepo: userRepo,
	}
}

type CreateGigInput struct {
	Title       string
	Description string
	Category    string
	PriceSOL    float64
	ImageURLs   []string
}

func (uc *GigUseCase) CreateGig(ctx context.Context, sellerID string, input CreateGigInput) (*entity.Gig, error) {
	if _, err := uc.userRepo.GetByID(ctx, sellerID); err != nil {
		return nil, errors.NotFound("Seller", err)
	}

	gig := &entity.Gig{
		SellerID:    sellerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		PriceSOL:    input.PriceSOL,
		ImageURLs:   input.ImageURLs,
		Status:      "active",
	}

	if err := uc.gigRepo.Create(ctx, gig); err != nil {
		return nil, err
	}
	return gig, nil
}

func (uc *GigUseCase) GetGig(ctx context.Context, gigID string) (*entity.Gig, error) {
	return uc.gigRepo.GetByID(ctx, gigID)
}

func (uc *GigUseCase) ListGigs(ctx context.Context, category string, limit, offset int) ([]*entity.Gig, int64, error) {
	return uc.gigRepo.List(ctx, category, limit, offset)
}

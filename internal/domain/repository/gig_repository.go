package repository

import (
	"context"

	"solgigs/internal/domain/entity"
)

type GigRepository interface {
	Create(ctx context.Context, gig *entity.Gig) error
	GetByID(ctx context.Context, id string) (*entity.Gig, error)
	List(ctx context.Context, category string, limit, offset int) ([]*entity.Gig, int64, error)
	Update(ctx context.Context, gig *entity.Gig) error
}

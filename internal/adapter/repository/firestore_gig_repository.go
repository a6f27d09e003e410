package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"solgigs/internal/domain/entity"
	"solgigs/internal/domain/repository"
	"solgigs/pkg/errors"
	"solgigs/pkg/logger"
)

type firestoreGigRepository struct {
	client *firestore.Client
}

func NewFirestoreGigRepository(client *firestore.Client) repository.GigRepository {
	return &firestoreGigRepository{
		client: client,
	}
}

func (r *firestoreGigRepository) Create(ctx context.Context, gig *entity.Gig) error {
	if gig.ID == "" {
		gig.ID = uuid.New().String()
	}

	now := time.Now()
	gig.CreatedAt = now
	gig.UpdatedAt = now
	if gig.Status == "" {
		gig.Status = "active"
	}

	_, err := r.client.Collection("gigs").Doc(gig.ID).Set(ctx, gig)
	if err != nil {
		return errors.Internal("Failed to create gig", err)
	}
	return nil
}

func (r *firestoreGigRepository) GetByID(ctx context.Context, id string) (*entity.Gig, error) {
	doc, err := r.client.Collection("gigs").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Gig", err)
		}
		return nil, errors.Internal("Failed to get gig", err)
	}

	var gig entity.Gig
	if err := doc.DataTo(&gig); err != nil {
		return nil, errors.Internal("Failed to parse gig data", err)
	}
	return &gig, nil
}

func (r *firestoreGigRepository) List(ctx context.Context, category string, limit, offset int) ([]*entity.Gig, int64, error) {
	query := r.client.Collection("gigs").Where("status", "==", "active")
	if category != "" {
		query = query.Where("category", "==", category)
	}
	ordered := query.OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while counting gigs: %v", err)
		return nil, 0, errors.Internal("Failed to count gigs", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		ordered = ordered.Limit(limit)
	}
	if offset > 0 {
		ordered = ordered.Offset(offset)
	}

	iter := ordered.Documents(ctx)
	var gigs []*entity.Gig

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating gigs: %v", err)
			return nil, 0, errors.Internal("Failed to iterate gigs", err)
		}

		var gig entity.Gig
		if err := doc.DataTo(&gig); err != nil {
			logger.Error("Error parsing gig data: %v", err)
			continue
		}
		gigs = append(gigs, &gig)
	}

	return gigs, total, nil
}

func (r *firestoreGigRepository) Update(ctx context.Context, gig *entity.Gig) error {
	gig.UpdatedAt = time.Now()

	_, err := r.client.Collection("gigs").Doc(gig.ID).Set(ctx, gig)
	if err != nil {
		return errors.Internal("Failed to update gig", err)
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nestbay/api/internal/helpers"
	"github.com/nestbay/api/internal/models"
)

type ReviewService struct {
	reviewRepo models.ReviewRepo
	houseRepo  models.HouseRepo
}

func NewReviewService(reviewRepo models.ReviewRepo, houseRepo models.HouseRepo) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		houseRepo:  houseRepo,
	}
}

func (rs *ReviewService) CreateReview(ctx context.Context, houseId, userId uuid.UUID, rating int, comment string) (*models.Review, error) {
	if houseId == uuid.Nil || userId == uuid.Nil {
		return nil, models.ErrInvalidID
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	// Reviews only attach to houses that exist.
	if _, err := rs.houseRepo.GetHouseByID(ctx, houseId); err != nil {
		return nil, err
	}

	now := time.Now()
	review := &models.Review{
		HouseID:   houseId,
		UserID:    userId,
		Rating:    rating,
		Comment:   helpers.StringTrim(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return rs.reviewRepo.CreateReview(ctx, review)
}

func (rs *ReviewService) GetReviewsByHouse(ctx context.Context, houseId uuid.UUID) ([]*models.Review, int, error) {
	if houseId == uuid.Nil {
		return nil, 0, models.ErrInvalidID
	}
	return rs.reviewRepo.GetReviewsByHouse(ctx, houseId)
}

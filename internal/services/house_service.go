package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nestbay/api/internal/cache"
	"github.com/nestbay/api/internal/helpers"
	"github.com/nestbay/api/internal/models"
)

type HouseService struct {
	houseRepo  models.HouseRepo
	reviewRepo models.ReviewRepo
	houseCache *cache.HouseCache
}

func NewHouseService(houseRepo models.HouseRepo, reviewRepo models.ReviewRepo, houseCache *cache.HouseCache) *HouseService {
	return &HouseService{
		houseRepo:  houseRepo,
		reviewRepo: reviewRepo,
		houseCache: houseCache,
	}
}

func (hs *HouseService) CreateHouse(ctx context.Context, house *models.House, hostId uuid.UUID) (*models.House, error) {
	if hostId == uuid.Nil {
		return nil, models.ErrInvalidID
	}
	if err := models.Validate.Struct(house); err != nil {
		return nil, fmt.Errorf("invalid house data provided: %v", err)
	}

	house.Description = helpers.SanitizeDescription(house.Description)

	now := time.Now()
	if house.Id == uuid.Nil {
		house.Id = uuid.New()
	}
	house.HostId = hostId
	house.CreatedAt = now
	house.UpdatedAt = now

	return hs.houseRepo.CreateHouse(ctx, house)
}

func (hs *HouseService) ListHouses(ctx context.Context, offset, limit int) ([]*models.House, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return hs.houseRepo.ListHouses(ctx, offset, limit)
}

// GetHouse returns the house with its reviews. The house document itself is
// served from the Redis cache when warm; reviews are always read fresh.
func (hs *HouseService) GetHouse(ctx context.Context, id uuid.UUID) (*models.HouseDetail, error) {
	if id == uuid.Nil {
		return nil, models.ErrInvalidID
	}

	house, hit := hs.houseCache.GetHouse(ctx, id)
	if !hit {
		var err error
		house, err = hs.houseRepo.GetHouseByID(ctx, id)
		if err != nil {
			return nil, err
		}
		hs.houseCache.SetHouse(ctx, house)
	}

	reviews, count, err := hs.reviewRepo.GetReviewsByHouse(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.HouseDetail{
		House:        house,
		Reviews:      reviews,
		ReviewsCount: count,
	}, nil
}

// UpdateHouse applies a partial update after verifying the caller owns the
// house, and drops the cached copy.
func (hs *HouseService) UpdateHouse(ctx context.Context, id, hostId uuid.UUID, fields map[string]interface{}) (*models.House, error) {
	if id == uuid.Nil || hostId == uuid.Nil {
		return nil, models.ErrInvalidID
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	house, err := hs.houseRepo.GetHouseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if house.HostId != hostId {
		return nil, models.ErrNotOwner
	}

	// Owner and ids are immutable through this path.
	delete(fields, "id")
	delete(fields, "host_id")
	if desc, ok := fields["description"].(string); ok {
		fields["description"] = helpers.SanitizeDescription(desc)
	}

	updated, err := hs.houseRepo.UpdateHouse(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	hs.houseCache.InvalidateHouse(ctx, id)
	return updated, nil
}

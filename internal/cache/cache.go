package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nestbay/api/internal/models"
)

const houseKeyPrefix = "house:"

// HouseCache keeps house documents in Redis for the public house page.
// Every method tolerates a nil cache or a flaky Redis: a failure is a miss,
// never an error surfaced to the caller.
type HouseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHouseCache(client *redis.Client, ttl time.Duration) *HouseCache {
	if client == nil {
		return nil
	}
	return &HouseCache{
		client: client,
		ttl:    ttl,
	}
}

func (hc *HouseCache) GetHouse(ctx context.Context, id uuid.UUID) (*models.House, bool) {
	if hc == nil {
		return nil, false
	}

	raw, err := hc.client.Get(ctx, houseKeyPrefix+id.String()).Bytes()
	if err != nil {
		return nil, false
	}

	var house models.House
	if err := json.Unmarshal(raw, &house); err != nil {
		return nil, false
	}
	return &house, true
}

func (hc *HouseCache) SetHouse(ctx context.Context, house *models.House) {
	if hc == nil || house == nil {
		return
	}

	raw, err := json.Marshal(house)
	if err != nil {
		return
	}
	hc.client.Set(ctx, houseKeyPrefix+house.Id.String(), raw, hc.ttl)
}

func (hc *HouseCache) InvalidateHouse(ctx context.Context, id uuid.UUID) {
	if hc == nil {
		return
	}
	hc.client.Del(ctx, houseKeyPrefix+id.String())
}

package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type House struct {
	Id     uuid.UUID `bson:"id" json:"id,omitempty"`
	HostId uuid.UUID `bson:"host_id" json:"host_id,omitempty"`

	Title         string  `bson:"title" json:"title,omitempty" validate:"required"`
	Description   string  `bson:"description" json:"description,omitempty"`
	Type          string  `bson:"type" json:"type,omitempty"`
	Town          string  `bson:"town" json:"town,omitempty" validate:"required"`
	Picture       string  `bson:"picture" json:"picture,omitempty"`
	PricePerNight float64 `bson:"price_per_night" json:"price_per_night,omitempty" validate:"gte=0"`

	Guests    int `bson:"guests" json:"guests,omitempty" validate:"gte=0"`
	Bedrooms  int `bson:"bedrooms" json:"bedrooms,omitempty" validate:"gte=0"`
	Bathrooms int `bson:"bathrooms" json:"bathrooms,omitempty" validate:"gte=0"`

	// ReserveSeq is bumped inside every reservation transaction; writing the
	// house document is what makes concurrent reserves for the same house
	// conflict and serialize.
	ReserveSeq int64 `bson:"reserve_seq" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HouseDetail is the house page payload: the house plus its reviews.
type HouseDetail struct {
	House        *House    `json:"house"`
	Reviews      []*Review `json:"reviews"`
	ReviewsCount int       `json:"reviews_count"`
}

type HouseRepo interface {
	CreateHouse(ctx context.Context, house *House) (*House, error)
	GetHouseByID(ctx context.Context, id uuid.UUID) (*House, error)
	ListHouses(ctx context.Context, offset, limit int) ([]*House, int, error)
	ListHousesByHost(ctx context.Context, hostId uuid.UUID) ([]*House, error)
	// UpdateHouse applies a partial update; ownership is checked by the service.
	UpdateHouse(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*House, error)
}

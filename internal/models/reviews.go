package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseID   uuid.UUID          `bson:"house_id" json:"house_id"`
	UserID    uuid.UUID          `bson:"user_id" json:"user_id"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type ReviewRepo interface {
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewsByHouse(ctx context.Context, houseId uuid.UUID) ([]*Review, int, error)
}

func (r *Review) BeforeCreate() error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	return nil
}

package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking reserves a house for an inclusive range of calendar dates.
// It is created unpaid, correlated with a payment-provider checkout session
// through SessionID, and flipped to paid when the provider confirms. Unpaid
// bookings older than the hold window are swept away.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseID   uuid.UUID          `bson:"house_id" json:"house_id" validate:"required"`
	UserID    uuid.UUID          `bson:"user_id" json:"user_id" validate:"required"`
	StartDate time.Time          `bson:"start_date" json:"start_date"`
	EndDate   time.Time          `bson:"end_date" json:"end_date"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Paid      bool               `bson:"paid" json:"paid"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// BookingWithHouse pairs a booking with the house it reserves, for guest and
// host listings.
type BookingWithHouse struct {
	Booking *Booking `json:"booking"`
	House   *House   `json:"house"`
}

type BookingRepo interface {
	// ReserveIfAvailable inserts the booking only if no stored booking for the
	// same house overlaps its inclusive date range. Check and insert run in one
	// transaction serialized per house, so concurrent overlapping reserves
	// cannot both succeed; a conflict reports ErrDatesUnavailable and inserts
	// nothing. An unknown house reports ErrHouseNotFound.
	ReserveIfAvailable(ctx context.Context, booking *Booking) error
	// CountOverlapping counts bookings intersecting [start, end] for a house,
	// paid or not.
	CountOverlapping(ctx context.Context, houseID uuid.UUID, start, end time.Time) (int64, error)
	ListByHouseEndingAfter(ctx context.Context, houseID uuid.UUID, from time.Time) ([]*Booking, error)
	// MarkPaidBySession sets paid=true on the booking holding sessionID.
	// Re-confirming an already paid booking is a no-op success; an unknown
	// session reports ErrBookingNotFound.
	MarkPaidBySession(ctx context.Context, sessionID string) error
	DeleteUnpaidCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ListPaidByUser(ctx context.Context, userID uuid.UUID, from time.Time) ([]*Booking, error)
	ListPaidByHouses(ctx context.Context, houseIDs []uuid.UUID, from time.Time) ([]*Booking, error)
}

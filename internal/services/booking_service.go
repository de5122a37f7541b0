package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nestbay/api/internal/helpers"
	"github.com/nestbay/api/internal/models"
)

// BookingService is the date-range availability engine: it decides whether a
// house can be reserved for a span of dates, expands booked intervals into
// calendar days, and reconciles reservations with payment confirmations.
type BookingService struct {
	bookingRepo models.BookingRepo
	houseRepo   models.HouseRepo
	// hold is how long an unpaid reservation keeps its dates before the
	// cleanup sweep may delete it.
	hold time.Duration
}

func NewBookingService(bookingRepo models.BookingRepo, houseRepo models.HouseRepo, hold time.Duration) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		houseRepo:   houseRepo,
		hold:        hold,
	}
}

func validateRange(houseID uuid.UUID, start, end time.Time) error {
	if houseID == uuid.Nil {
		return models.ErrInvalidID
	}
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return models.ErrInvalidDateRange
	}
	return nil
}

// CheckAvailability reports whether [start, end] is free for the house.
// Any recorded booking blocks the range, paid or not; abandoned unpaid
// reservations only release their dates once the cleanup sweep removes them.
func (bs *BookingService) CheckAvailability(ctx context.Context, houseID uuid.UUID, start, end time.Time) (bool, error) {
	if err := validateRange(houseID, start, end); err != nil {
		return false, err
	}

	count, err := bs.bookingRepo.CountOverlapping(ctx, houseID, helpers.DateOnly(start), helpers.DateOnly(end))
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// BookedDates returns every calendar day covered by a current or future
// booking of the house, deduplicated, in no particular order.
func (bs *BookingService) BookedDates(ctx context.Context, houseID uuid.UUID) ([]string, error) {
	if houseID == uuid.Nil {
		return nil, models.ErrInvalidID
	}

	today := helpers.DateOnly(time.Now())
	bookings, err := bs.bookingRepo.ListByHouseEndingAfter(ctx, houseID, today)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	dates := []string{}
	for _, b := range bookings {
		for _, d := range helpers.DatesBetween(b.StartDate, b.EndDate) {
			key := helpers.FormatDate(d)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			dates = append(dates, key)
		}
	}

	return dates, nil
}

// Reserve creates an unpaid booking for the range if it is still free.
// The conflict check and the insert happen atomically in the repo, so
// concurrent overlapping reservations cannot both succeed; the losers get
// models.ErrDatesUnavailable.
func (bs *BookingService) Reserve(ctx context.Context, houseID, userID uuid.UUID, start, end time.Time, sessionID string) (*models.Booking, error) {
	if err := validateRange(houseID, start, end); err != nil {
		return nil, err
	}
	if userID == uuid.Nil {
		return nil, models.ErrInvalidID
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("payment session id is required")
	}

	now := time.Now()
	booking := &models.Booking{
		HouseID:   houseID,
		UserID:    userID,
		StartDate: helpers.DateOnly(start),
		EndDate:   helpers.DateOnly(end),
		SessionID: sessionID,
		Paid:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := bs.bookingRepo.ReserveIfAvailable(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// ConfirmPayment marks the booking correlated with the checkout session as
// paid. Confirming an already-paid booking is a no-op success; an unknown
// session reports models.ErrBookingNotFound and the webhook handler logs and
// moves on.
func (bs *BookingService) ConfirmPayment(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return models.ErrBookingNotFound
	}
	return bs.bookingRepo.MarkPaidBySession(ctx, sessionID)
}

// CleanupUnpaid deletes unpaid bookings older than the configured hold
// window and reports how many were purged. Reservations younger than the
// hold keep their dates so an in-flight payment is never swept away.
func (bs *BookingService) CleanupUnpaid(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-bs.hold)
	return bs.bookingRepo.DeleteUnpaidCreatedBefore(ctx, cutoff)
}

// ListUserBookings returns the guest's paid, current-or-future bookings with
// their houses, ordered by start date.
func (bs *BookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]*models.BookingWithHouse, error) {
	if userID == uuid.Nil {
		return nil, models.ErrInvalidID
	}

	today := helpers.DateOnly(time.Now())
	bookings, err := bs.bookingRepo.ListPaidByUser(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	return bs.attachHouses(ctx, bookings)
}

// HostDashboard returns the host's houses together with their paid upcoming
// bookings.
func (bs *BookingService) HostDashboard(ctx context.Context, hostID uuid.UUID) ([]*models.House, []*models.BookingWithHouse, error) {
	if hostID == uuid.Nil {
		return nil, nil, models.ErrInvalidID
	}

	houses, err := bs.houseRepo.ListHousesByHost(ctx, hostID)
	if err != nil {
		return nil, nil, err
	}

	houseIDs := make([]uuid.UUID, 0, len(houses))
	byID := make(map[uuid.UUID]*models.House, len(houses))
	for _, h := range houses {
		houseIDs = append(houseIDs, h.Id)
		byID[h.Id] = h
	}

	today := helpers.DateOnly(time.Now())
	bookings, err := bs.bookingRepo.ListPaidByHouses(ctx, houseIDs, today)
	if err != nil {
		return nil, nil, err
	}

	joined := make([]*models.BookingWithHouse, 0, len(bookings))
	for _, b := range bookings {
		joined = append(joined, &models.BookingWithHouse{
			Booking: b,
			House:   byID[b.HouseID],
		})
	}

	return houses, joined, nil
}

func (bs *BookingService) attachHouses(ctx context.Context, bookings []*models.Booking) ([]*models.BookingWithHouse, error) {
	joined := make([]*models.BookingWithHouse, 0, len(bookings))
	houses := make(map[uuid.UUID]*models.House)
	for _, b := range bookings {
		house, ok := houses[b.HouseID]
		if !ok {
			var err error
			house, err = bs.houseRepo.GetHouseByID(ctx, b.HouseID)
			if err != nil {
				return nil, fmt.Errorf("failed to load house for booking: %w", err)
			}
			houses[b.HouseID] = house
		}
		joined = append(joined, &models.BookingWithHouse{
			Booking: b,
			House:   house,
		})
	}
	return joined, nil
}

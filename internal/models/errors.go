package models

import "errors"

// Sentinel errors the handlers map onto HTTP status codes. Everything else
// coming out of a repo is a store failure and surfaces as a 500.
var (
	ErrDatesUnavailable = errors.New("dates_unavailable")
	ErrBookingNotFound  = errors.New("booking_not_found")
	ErrHouseNotFound    = errors.New("house_not_found")
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotOwner         = errors.New("not_owner")
)

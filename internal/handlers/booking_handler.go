package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nestbay/api/internal/helpers"
	"github.com/nestbay/api/internal/models"
	"github.com/nestbay/api/internal/services"
)

// CheckDates reports whether a house is free for an inclusive date range.
func CheckDates(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			HouseID   string `json:"house_id" binding:"required,uuid"`
			StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
			EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		houseID, _ := uuid.Parse(req.HouseID)
		start, _ := helpers.ParseDate(req.StartDate)
		end, _ := helpers.ParseDate(req.EndDate)

		free, err := b.CheckAvailability(c.Request.Context(), houseID, start, end)
		if errors.Is(err, models.ErrInvalidDateRange) || errors.Is(err, models.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		status := "free"
		if !free {
			status = "busy"
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"availability": status}, ""))
	}
}

// BookedDates lists every booked calendar day of a house, today onwards.
func BookedDates(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			HouseID string `json:"house_id" binding:"required,uuid"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		houseID, _ := uuid.Parse(req.HouseID)
		dates, err := b.BookedDates(c.Request.Context(), houseID)
		if errors.Is(err, models.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"dates": dates}, ""))
	}
}

// ReserveHouse creates an unpaid booking when the dates are still free.
func ReserveHouse(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, err := userIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}

		var req struct {
			HouseID   string `json:"house_id" binding:"required,uuid"`
			StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
			EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
			SessionID string `json:"session_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		houseID, _ := uuid.Parse(req.HouseID)
		start, _ := helpers.ParseDate(req.StartDate)
		end, _ := helpers.ParseDate(req.EndDate)

		booking, err := b.Reserve(c.Request.Context(), houseID, userId, start, end, req.SessionID)
		switch {
		case errors.Is(err, models.ErrDatesUnavailable):
			c.JSON(http.StatusConflict, models.ErrorResponse("house is already booked for those dates"))
		case errors.Is(err, models.ErrHouseNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse("house not found"))
		case errors.Is(err, models.ErrInvalidDateRange), errors.Is(err, models.ErrInvalidID):
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
		case err != nil:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Reservation created"))
		}
	}
}

// ListBookings returns the authenticated guest's paid upcoming bookings.
func ListBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, err := userIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}

		bookings, err := b.ListUserBookings(c.Request.Context(), userId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

// HostDashboard returns the host's houses and their paid upcoming bookings.
func HostDashboard(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostId, err := userIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}

		houses, bookings, err := b.HostDashboard(c.Request.Context(), hostId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"houses":   houses,
			"bookings": bookings,
		}, ""))
	}
}

// CleanBookings sweeps unpaid bookings older than the hold window.
func CleanBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		purged, err := b.CleanupUnpaid(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"purged": purged}, ""))
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v79"

	"github.com/nestbay/api/internal/models"
	"github.com/nestbay/api/internal/services"
)

const maxWebhookBodyBytes = 65536

// CreateCheckoutSession opens a Stripe Checkout session for a booking amount
// given in whole currency units.
func CreateCheckoutSession(p *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := userIDFromContext(c); err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}

		var req struct {
			Amount float64 `json:"amount" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		sessionID, err := p.CreateCheckoutSession(int64(math.Round(req.Amount*100)), "gbp")
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"session_id":        sessionID,
			"stripe_public_key": p.PublicKey(),
		}, ""))
	}
}

// StripeWebhook receives signed payment events. On checkout.session.completed
// the correlated booking is marked paid. An event referencing an unknown
// session (already swept, or not ours) is logged and acknowledged so Stripe
// stops retrying.
func StripeWebhook(p *services.PaymentService, b *services.BookingService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("failed to read request body"))
			return
		}

		event, err := p.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			logger.Error("Webhook signature verification failed", "error", err)
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if event.Type == "checkout.session.completed" {
			var session stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
				logger.Error("Failed to decode checkout session", "error", err)
				c.JSON(http.StatusBadRequest, models.ErrorResponse("malformed event payload"))
				return
			}

			err := b.ConfirmPayment(c.Request.Context(), session.ID)
			switch {
			case errors.Is(err, models.ErrBookingNotFound):
				logger.Info("Payment confirmed for unknown session", "session_id", session.ID)
			case err != nil:
				logger.Error("Failed to confirm payment", "session_id", session.ID, "error", err)
				c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to confirm payment"))
				return
			default:
				logger.Info("Payment received", "session_id", session.ID)
			}
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

package services

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

// PaymentService wraps the Stripe checkout flow. The booking engine never
// sees Stripe types; it only receives the session id the webhook carries.
type PaymentService struct {
	publicKey     string
	webhookSecret string
	baseURL       string
}

func NewPaymentService(secretKey, publicKey, webhookSecret, baseURL string) *PaymentService {
	stripe.Key = secretKey
	return &PaymentService{
		publicKey:     publicKey,
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
	}
}

func (ps *PaymentService) PublicKey() string {
	return ps.publicKey
}

// CreateCheckoutSession opens a Stripe Checkout session for the booking
// amount, given in the currency's smallest unit.
func (ps *PaymentService) CreateCheckoutSession(amount int64, currency string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("House booking on Nestbay"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(ps.baseURL + "/bookings"),
		CancelURL:  stripe.String(ps.baseURL + "/bookings"),
	}

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %v", err)
	}

	return s.ID, nil
}

// VerifyEvent authenticates an incoming webhook payload against the signing
// secret.
func (ps *PaymentService) VerifyEvent(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, ps.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %v", err)
	}
	return event, nil
}

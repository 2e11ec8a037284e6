package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/refund"
)

// Provider is the gateway surface the payment service needs. The service
// never trusts the client about payment outcomes; it always asks the
// provider.
type Provider interface {
	CreateIntent(amount int64, currency string, metadata map[string]string) (id, clientSecret string, err error)
	IntentStatus(id string) (string, error)
	Refund(paymentID string, amount *int64) error
}

// Ensure implementation satisfies the interface
var _ Provider = (*StripeProvider)(nil)

// StripeProvider backs Provider with Stripe PaymentIntents.
type StripeProvider struct {
	apiKey string
}

func NewStripeProvider(apiKey string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{apiKey: apiKey}
}

// CreateIntent creates a payment intent with automatic payment methods,
// which covers cards plus Apple Pay and Google Pay.
func (p *StripeProvider) CreateIntent(amount int64, currency string, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Metadata: metadata,
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi.ID, pi.ClientSecret, nil
}

// IntentStatus fetches the gateway's view of the payment.
func (p *StripeProvider) IntentStatus(id string) (string, error) {
	pi, err := paymentintent.Get(id, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get payment intent: %w", err)
	}
	return string(pi.Status), nil
}

// Refund refunds a payment, fully when amount is nil.
func (p *StripeProvider) Refund(paymentID string, amount *int64) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
	}
	if amount != nil {
		params.Amount = stripe.Int64(*amount)
	}
	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}
	return nil
}

// StatusSucceeded is the only gateway status that counts as paid.
const StatusSucceeded = string(stripe.PaymentIntentStatusSucceeded)

package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
)

// StripePaymentProvider charges holds with a confirmed PaymentIntent. The
// payment proof is the id of a Stripe PaymentMethod collected by the client.
type StripePaymentProvider struct{}

func NewStripePaymentProvider(secretKey string) *StripePaymentProvider {
	stripe.Key = secretKey

	return &StripePaymentProvider{}
}

func (s *StripePaymentProvider) Charge(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentReceipt, error) {
	currency := req.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toCents(req.Amount)),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(req.Proof),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	// A retried confirmation of the same hold must not charge twice.
	params.SetIdempotencyKey("hold-" + req.HoldID)
	params.AddMetadata("hold_id", req.HoldID)
	params.AddMetadata("user_id", strconv.FormatInt(req.UserID, 10))
	params.AddMetadata("showtime_id", strconv.FormatInt(req.ShowtimeID, 10))

	intent, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return nil, &domain.PaymentError{Reason: stripeErr.Msg, Err: err}
		}

		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, &domain.PaymentError{Reason: fmt.Sprintf("payment is %s", intent.Status)}
	}

	return &domain.PaymentReceipt{
		Reference: intent.ID,
		Amount:    req.Amount,
		Currency:  currency,
	}, nil
}

func (s *StripePaymentProvider) Refund(ctx context.Context, reference string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(reference),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + reference)

	_, err := refund.New(params)
	if err != nil {
		return fmt.Errorf("stripe refund: %w", err)
	}

	return nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "usd"

type PaymentRequest struct {
	HoldID      string
	UserID      int64
	ShowtimeID  int64
	Amount      decimal.Decimal
	Currency    string
	Proof       string
	Description string
}

type PaymentReceipt struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string
}

// PaymentProvider charges a customer for a hold. Declines are reported as
// *PaymentError.
type PaymentProvider interface {
	Charge(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error)
	Refund(ctx context.Context, reference string) error
}

package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"12.99", 1299},
		{"38.97", 3897},
		{"0", 0},
		{"10.005", 1001},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, toCents(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestMockPaymentProvider(t *testing.T) {
	ctx := context.Background()
	provider := NewMockPaymentProvider()

	req := domain.PaymentRequest{
		HoldID:   "hold-1",
		Amount:   decimal.RequireFromString("25.98"),
		Currency: domain.DefaultCurrency,
		Proof:    "pm_card_visa",
	}

	receipt, err := provider.Charge(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "pi_mock_1", receipt.Reference)
	assert.True(t, receipt.Amount.Equal(req.Amount))

	require.NoError(t, provider.Refund(ctx, receipt.Reference))
	assert.Equal(t, []string{"pi_mock_1"}, provider.Refunds())

	assert.Error(t, provider.Refund(ctx, "pi_unknown"))

	req.Proof = DeclinedProofPrefix + "_insufficient_funds"
	_, err = provider.Charge(ctx, req)

	var paymentErr *domain.PaymentError
	require.True(t, errors.As(err, &paymentErr))
	assert.Equal(t, "card was declined", paymentErr.Reason)

	req.Proof = ""
	_, err = provider.Charge(ctx, req)
	assert.True(t, errors.As(err, &paymentErr))
}

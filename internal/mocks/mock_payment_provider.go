package mocks

import (
	"context"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) Charge(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentReceipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentReceipt), args.Error(1)
}

func (m *MockPaymentProvider) Refund(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

// DeclinedProofPrefix makes the mock provider decline a charge.
const DeclinedProofPrefix = "declined"

// MockPaymentProvider accepts every proof except empty ones and those starting
// with DeclinedProofPrefix. It is used when no Stripe key is configured.
type MockPaymentProvider struct {
	mu      sync.Mutex
	seq     int
	charges map[string]domain.PaymentRequest
	refunds []string
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{
		charges: make(map[string]domain.PaymentRequest),
	}
}

func (m *MockPaymentProvider) Charge(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentReceipt, error) {
	if req.Proof == "" {
		return nil, &domain.PaymentError{Reason: "payment proof is missing"}
	}

	if strings.HasPrefix(req.Proof, DeclinedProofPrefix) {
		return nil, &domain.PaymentError{Reason: "card was declined"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	reference := fmt.Sprintf("pi_mock_%d", m.seq)
	m.charges[reference] = req

	return &domain.PaymentReceipt{
		Reference: reference,
		Amount:    req.Amount,
		Currency:  req.Currency,
	}, nil
}

func (m *MockPaymentProvider) Refund(ctx context.Context, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.charges[reference]; !ok {
		return fmt.Errorf("unknown charge %s", reference)
	}

	m.refunds = append(m.refunds, reference)

	return nil
}

func (m *MockPaymentProvider) Refunds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.refunds...)
}

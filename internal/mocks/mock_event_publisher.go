package mocks

import (
	"context"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockEventPublisher struct {
	mock.Mock
	domain.EventPublisher
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

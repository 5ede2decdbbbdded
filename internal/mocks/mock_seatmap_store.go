package mocks

import (
	"context"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatMapStore struct {
	mock.Mock
	domain.SeatMapStore
}

func (m *MockSeatMapStore) SeatStates(
	ctx context.Context,
	showtimeID int64,
	layout domain.SeatLayout) (domain.SeatStates, error) {

	args := m.Called(ctx, showtimeID, layout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.SeatStates), args.Error(1)
}

func (m *MockSeatMapStore) TryHold(ctx context.Context, hold *domain.Hold) error {
	args := m.Called(ctx, hold)
	return args.Error(0)
}

func (m *MockSeatMapStore) Hold(ctx context.Context, holdID string) (*domain.Hold, error) {
	args := m.Called(ctx, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockSeatMapStore) Commit(ctx context.Context, showtimeID int64, holdID string) ([]string, error) {
	args := m.Called(ctx, showtimeID, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSeatMapStore) ReleaseHold(ctx context.Context, showtimeID int64, holdID string) error {
	args := m.Called(ctx, showtimeID, holdID)
	return args.Error(0)
}

func (m *MockSeatMapStore) ReleaseSeats(ctx context.Context, showtimeID int64, labels []string) error {
	args := m.Called(ctx, showtimeID, labels)
	return args.Error(0)
}

func (m *MockSeatMapStore) Book(ctx context.Context, showtimeID int64, labels []string) error {
	args := m.Called(ctx, showtimeID, labels)
	return args.Error(0)
}

func (m *MockSeatMapStore) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatMapStore) DropShowtime(ctx context.Context, showtimeID int64) error {
	args := m.Called(ctx, showtimeID)
	return args.Error(0)
}

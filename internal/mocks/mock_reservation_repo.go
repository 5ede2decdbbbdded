package mocks

import (
	"context"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReservationRepo struct {
	mock.Mock
	domain.ReservationRepository
}

func (m *MockReservationRepo) Append(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepo) Find(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListByUser(
	ctx context.Context,
	userID int64,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockReservationRepo) MarkCancelled(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationRepo) ConfirmedSeats(ctx context.Context) (map[int64][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]string), args.Error(1)
}

func (m *MockReservationRepo) ListAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	args := m.Called(ctx, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockReservationRepo) HasConfirmed(ctx context.Context, showtimeID int64) (bool, error) {
	args := m.Called(ctx, showtimeID)
	return args.Bool(0), args.Error(1)
}

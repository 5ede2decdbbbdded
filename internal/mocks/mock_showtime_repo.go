package mocks

import (
	"context"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowtimeRepo struct {
	mock.Mock
	domain.ShowtimeRepository
}

func (m *MockShowtimeRepo) Create(ctx context.Context, showtime *domain.Showtime) error {
	args := m.Called(ctx, showtime)
	return args.Error(0)
}

func (m *MockShowtimeRepo) GetById(ctx context.Context, id int64) (*domain.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) GetAll(ctx context.Context, pagination domain.Pagination) ([]domain.Showtime, *domain.Metadata, error) {
	args := m.Called(ctx, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Showtime), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockShowtimeRepo) Update(ctx context.Context, id int64, update domain.ShowtimeUpdate) (*domain.Showtime, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

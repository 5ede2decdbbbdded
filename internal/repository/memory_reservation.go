package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

// MemoryReservationRepository is the ledger used when no database is configured.
type MemoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]*domain.Reservation
	now          func() time.Time
}

func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{
		reservations: make(map[string]*domain.Reservation),
		now:          time.Now,
	}
}

func (m *MemoryReservationRepository) Append(ctx context.Context, reservation *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reservations[reservation.ID]; exists {
		return domain.ErrDuplicateID
	}

	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = m.now()
	}

	m.reservations[reservation.ID] = cloneReservation(reservation)

	return nil
}

func (m *MemoryReservationRepository) Find(ctx context.Context, id string) (*domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reservation, ok := m.reservations[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return cloneReservation(reservation), nil
}

func (m *MemoryReservationRepository) ListByUser(
	ctx context.Context,
	userID int64,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return m.list(pagination, func(r *domain.Reservation) bool { return r.UserID == userID })
}

func (m *MemoryReservationRepository) ListAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return m.list(pagination, func(*domain.Reservation) bool { return true })
}

// list returns the matching reservations newest first.
func (m *MemoryReservationRepository) list(
	pagination domain.Pagination,
	match func(*domain.Reservation) bool) ([]domain.Reservation, *domain.Metadata, error) {

	m.mu.RLock()
	defer m.mu.RUnlock()

	reservations := make([]domain.Reservation, 0)
	for _, r := range m.reservations {
		if match(r) {
			reservations = append(reservations, *cloneReservation(r))
		}
	}

	slices.SortFunc(reservations, func(a, b domain.Reservation) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	page, metadata := domain.Page(reservations, pagination)

	return page, metadata, nil
}

func (m *MemoryReservationRepository) HasConfirmed(ctx context.Context, showtimeID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.reservations {
		if r.ShowtimeID == showtimeID && r.Status == domain.ReservationConfirmed {
			return true, nil
		}
	}

	return false, nil
}

func (m *MemoryReservationRepository) MarkCancelled(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reservation, ok := m.reservations[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	if reservation.Status == domain.ReservationCancelled {
		return domain.ErrAlreadyCancelled
	}

	cancelledAt := m.now()
	reservation.Status = domain.ReservationCancelled
	reservation.CancelledAt = &cancelledAt

	return nil
}

func (m *MemoryReservationRepository) ConfirmedSeats(ctx context.Context) (map[int64][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seats := make(map[int64][]string)
	for _, r := range m.reservations {
		if r.Status == domain.ReservationConfirmed {
			seats[r.ShowtimeID] = append(seats[r.ShowtimeID], r.Seats...)
		}
	}

	return seats, nil
}

func cloneReservation(r *domain.Reservation) *domain.Reservation {
	clone := *r
	clone.Seats = slices.Clone(r.Seats)

	if r.CancelledAt != nil {
		cancelledAt := *r.CancelledAt
		clone.CancelledAt = &cancelledAt
	}

	return &clone
}

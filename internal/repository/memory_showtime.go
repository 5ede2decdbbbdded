package repository

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

// MemoryShowtimeRepository keeps showtimes next to the in-memory movie
// catalog so a movie cannot be deleted while it is scheduled.
type MemoryShowtimeRepository struct {
	catalog   *MemoryMovieRepository
	nextID    int64
	showtimes map[int64]domain.Showtime
}

func NewMemoryShowtimeRepository(catalog *MemoryMovieRepository) *MemoryShowtimeRepository {
	return &MemoryShowtimeRepository{
		catalog:   catalog,
		showtimes: make(map[int64]domain.Showtime),
	}
}

func (m *MemoryShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	m.catalog.mu.Lock()
	defer m.catalog.mu.Unlock()

	movie, ok := m.catalog.movies[showtime.MovieID]
	if !ok {
		return domain.ErrUnknownMovie
	}

	m.nextID++
	showtime.ID = m.nextID
	showtime.MovieTitle = movie.Title
	showtime.CreatedAt = time.Now()

	m.showtimes[showtime.ID] = *showtime
	m.catalog.scheduled[showtime.MovieID]++

	return nil
}

func (m *MemoryShowtimeRepository) GetById(ctx context.Context, id int64) (*domain.Showtime, error) {
	m.catalog.mu.RLock()
	defer m.catalog.mu.RUnlock()

	showtime, ok := m.showtimes[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return m.withTitle(showtime), nil
}

func (m *MemoryShowtimeRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Showtime, *domain.Metadata, error) {

	m.catalog.mu.RLock()
	defer m.catalog.mu.RUnlock()

	showtimes := make([]domain.Showtime, 0, len(m.showtimes))
	for _, s := range m.showtimes {
		showtimes = append(showtimes, *m.withTitle(s))
	}

	slices.SortFunc(showtimes, func(a, b domain.Showtime) int {
		if c := a.StartsAt.Compare(b.StartsAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	page, metadata := domain.Page(showtimes, pagination)

	return page, metadata, nil
}

func (m *MemoryShowtimeRepository) Update(
	ctx context.Context,
	id int64,
	update domain.ShowtimeUpdate) (*domain.Showtime, error) {

	m.catalog.mu.Lock()
	defer m.catalog.mu.Unlock()

	showtime, ok := m.showtimes[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	update.Apply(&showtime)
	m.showtimes[id] = showtime

	return m.withTitle(showtime), nil
}

func (m *MemoryShowtimeRepository) Delete(ctx context.Context, id int64) error {
	m.catalog.mu.Lock()
	defer m.catalog.mu.Unlock()

	showtime, ok := m.showtimes[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	delete(m.showtimes, id)
	m.catalog.scheduled[showtime.MovieID]--

	return nil
}

// withTitle must be called with the catalog lock held.
func (m *MemoryShowtimeRepository) withTitle(showtime domain.Showtime) *domain.Showtime {
	showtime.MovieTitle = m.catalog.movies[showtime.MovieID].Title
	return &showtime
}

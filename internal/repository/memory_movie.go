package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

// MemoryMovieRepository is the movie catalog used when no database is
// configured. Showtimes kept in memory share its lock.
type MemoryMovieRepository struct {
	mu        sync.RWMutex
	nextID    int64
	movies    map[int64]domain.Movie
	scheduled map[int64]int
}

func NewMemoryMovieRepository() *MemoryMovieRepository {
	return &MemoryMovieRepository{
		movies:    make(map[int64]domain.Movie),
		scheduled: make(map[int64]int),
	}
}

func (m *MemoryMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	movie.ID = m.nextID
	movie.CreatedAt = time.Now()

	m.movies[movie.ID] = *movie

	return nil
}

func (m *MemoryMovieRepository) GetAll(
	ctx context.Context,
	filters domain.MovieFilters) ([]domain.Movie, *domain.Metadata, error) {

	m.mu.RLock()
	defer m.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(filters.Term))

	movies := make([]domain.Movie, 0, len(m.movies))
	for _, movie := range m.movies {
		if term == "" ||
			strings.Contains(strings.ToLower(movie.Title), term) ||
			strings.Contains(strings.ToLower(movie.Description), term) {
			movies = append(movies, movie)
		}
	}

	slices.SortFunc(movies, func(a, b domain.Movie) int {
		c := compareMovies(a, b, filters.SortColumn())
		if filters.SortDirection() == "DESC" {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	page, metadata := domain.Page(movies, filters.Pagination())

	return page, metadata, nil
}

func compareMovies(a, b domain.Movie, column string) int {
	switch column {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "release_date":
		return a.ReleaseDate.Compare(b.ReleaseDate)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

func (m *MemoryMovieRepository) GetById(ctx context.Context, id int64) (*domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	movie, ok := m.movies[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &movie, nil
}

func (m *MemoryMovieRepository) Update(
	ctx context.Context,
	id int64,
	update domain.MovieUpdate) (*domain.Movie, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	update.Apply(&movie)
	m.movies[id] = movie

	return &movie, nil
}

func (m *MemoryMovieRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.movies[id]; !ok {
		return domain.ErrRecordNotFound
	}

	if m.scheduled[id] > 0 {
		return domain.ErrMovieInUse
	}

	delete(m.movies, id)
	delete(m.scheduled, id)

	return nil
}

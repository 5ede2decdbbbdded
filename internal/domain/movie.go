package domain

import (
	"context"
	"strings"
	"time"
)

type MovieStatus string

const (
	MovieNowShowing MovieStatus = "NOW_SHOWING"
	MovieComingSoon MovieStatus = "COMING_SOON"
)

type Movie struct {
	ID          int64
	Title       string
	Description string
	Genre       string
	Duration    int
	PosterUrl   string
	ReleaseDate time.Time
	CreatedAt   time.Time
}

// Status reports whether the movie has been released as of now.
func (m *Movie) Status(now time.Time) MovieStatus {
	today := now.Truncate(24 * time.Hour)

	if m.ReleaseDate.After(today) {
		return MovieComingSoon
	}

	return MovieNowShowing
}

type MovieUpdate struct {
	Title       *string
	Description *string
	Genre       *string
	Duration    *int
	PosterUrl   *string
	ReleaseDate *time.Time
}

func (u MovieUpdate) Apply(m *Movie) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Genre != nil {
		m.Genre = *u.Genre
	}
	if u.Duration != nil {
		m.Duration = *u.Duration
	}
	if u.PosterUrl != nil {
		m.PosterUrl = *u.PosterUrl
	}
	if u.ReleaseDate != nil {
		m.ReleaseDate = *u.ReleaseDate
	}
}

type MovieFilters struct {
	Page     int
	PageSize int
	Term     string
	Sort     string
}

func (f MovieFilters) SortColumn() string {
	return strings.TrimPrefix(f.Sort, "-")
}

func (f MovieFilters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}

	return "ASC"
}

func (f MovieFilters) Pagination() Pagination {
	return Pagination{Page: f.Page, PageSize: f.PageSize}
}

func (f MovieFilters) Limit() int {
	return f.PageSize
}

func (f MovieFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	GetAll(ctx context.Context, filters MovieFilters) ([]Movie, *Metadata, error)
	GetById(ctx context.Context, id int64) (*Movie, error)
	Update(ctx context.Context, id int64, update MovieUpdate) (*Movie, error)
	// Delete fails with ErrMovieInUse while showtimes of the movie remain.
	Delete(ctx context.Context, id int64) error
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMovieStatus(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		releaseDate time.Time
		want        MovieStatus
	}{
		{name: "released last year", releaseDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), want: MovieNowShowing},
		{name: "released today", releaseDate: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), want: MovieNowShowing},
		{name: "released tomorrow", releaseDate: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), want: MovieComingSoon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movie := Movie{ReleaseDate: tt.releaseDate}
			assert.Equal(t, tt.want, movie.Status(now))
		})
	}
}

func TestMovieFilters(t *testing.T) {
	filters := MovieFilters{Page: 3, PageSize: 20, Sort: "-release_date"}

	assert.Equal(t, "release_date", filters.SortColumn())
	assert.Equal(t, "DESC", filters.SortDirection())
	assert.Equal(t, 40, filters.Offset())
	assert.Equal(t, Pagination{Page: 3, PageSize: 20}, filters.Pagination())

	filters.Sort = "title"
	assert.Equal(t, "title", filters.SortColumn())
	assert.Equal(t, "ASC", filters.SortDirection())
}

func TestMovieUpdateApply(t *testing.T) {
	movie := Movie{Title: "Arrival", Genre: "Sci-Fi", Duration: 116}
	duration := 118

	MovieUpdate{Duration: &duration}.Apply(&movie)

	assert.Equal(t, Movie{Title: "Arrival", Genre: "Sci-Fi", Duration: 118}, movie)
}

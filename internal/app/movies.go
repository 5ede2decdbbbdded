package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/oapi-codegen/runtime/types"
)

const (
	DefaultSort = "id"

	ErrReleaseDateMissing = "must be provided"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request, params api.GetMoviesParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters := toMovieFilters(params)

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MoviesResponse{
		Movies:   make([]api.MovieResponse, len(movies)),
		Metadata: toApiMetadata(metadata),
	}

	now := time.Now()
	for i := range movies {
		resp.Movies[i] = toMovieResponse(&movies[i], now)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input api.CreateMovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if input.ReleaseDate.Time.IsZero() {
		app.fieldErrorResponse(w, r, "release_date", ErrReleaseDateMissing)
		return
	}

	movie := &domain.Movie{
		Title:       input.Title,
		Description: input.Description,
		Genre:       input.Genre,
		Duration:    input.Duration,
		PosterUrl:   deref(input.PosterUrl),
		ReleaseDate: input.ReleaseDate.Time,
	}

	err = app.movieRepo.Create(r.Context(), movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("movie created", "movie_id", movie.ID)

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/movies/%d", movie.ID))

	err = app.writeJSON(w, http.StatusCreated, toMovieResponse(movie, time.Now()), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovie(w http.ResponseWriter, r *http.Request, movieId int64) {
	movie, err := app.movieRepo.GetById(r.Context(), movieId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie, time.Now()), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateMovie(w http.ResponseWriter, r *http.Request, movieId int64) {
	var input api.UpdateMovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	update := domain.MovieUpdate{
		Title:       input.Title,
		Description: input.Description,
		Genre:       input.Genre,
		Duration:    input.Duration,
		PosterUrl:   input.PosterUrl,
	}

	if input.ReleaseDate != nil {
		update.ReleaseDate = &input.ReleaseDate.Time
	}

	movie, err := app.movieRepo.Update(r.Context(), movieId, update)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie, time.Now()), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// DeleteMovie removes a movie from the catalog. Movies with scheduled
// showtimes stay until those showtimes are deleted.
func (app *Application) DeleteMovie(w http.ResponseWriter, r *http.Request, movieId int64) {
	err := app.movieRepo.Delete(r.Context(), movieId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("movie deleted", "movie_id", movieId)

	w.WriteHeader(http.StatusNoContent)
}

func toMovieFilters(params api.GetMoviesParams) domain.MovieFilters {
	filters := domain.MovieFilters{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		Sort:     DefaultSort,
	}

	if params.Page != nil {
		filters.Page = *params.Page
	}
	if params.PageSize != nil {
		filters.PageSize = *params.PageSize
	}
	if params.Sort != nil {
		filters.Sort = *params.Sort
	}
	if params.Term != nil {
		filters.Term = *params.Term
	}

	return filters
}

func toMovieResponse(movie *domain.Movie, now time.Time) api.MovieResponse {
	status := api.NOWSHOWING
	if movie.Status(now) == domain.MovieComingSoon {
		status = api.COMINGSOON
	}

	return api.MovieResponse{
		Id:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       movie.Genre,
		Duration:    movie.Duration,
		PosterUrl:   movie.PosterUrl,
		ReleaseDate: types.Date{Time: movie.ReleaseDate},
		Status:      status,
		CreatedAt:   movie.CreatedAt,
	}
}

package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/shopspring/decimal"
)

const ErrNegativePrice = "must not be negative"

func (app *Application) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var input api.CreateShowtimeRequest

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

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		app.fieldErrorResponse(w, r, "price", ErrNegativePrice)
		return
	}

	showtime := &domain.Showtime{
		MovieID:  input.MovieId,
		Theater:  input.Theater,
		StartsAt: input.StartsAt,
		Rows:     input.Rows,
		Columns:  input.Columns,
		Price:    price,
	}

	err = app.showtimeRepo.Create(r.Context(), showtime)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("showtime created", "showtime_id", showtime.ID, "seats", showtime.Layout().Total())

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/showtimes/%d", showtime.ID))

	err = app.writeJSON(w, http.StatusCreated, toShowtimeResponse(showtime), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowtimes(w http.ResponseWriter, r *http.Request, params api.GetShowtimesParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	showtimes, metadata, err := app.showtimeRepo.GetAll(r.Context(), toPagination(params.Page, params.PageSize))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowtimesResponse{
		Showtimes: make([]api.ShowtimeResponse, len(showtimes)),
		Metadata:  toApiMetadata(metadata),
	}

	for i := range showtimes {
		capacity, err := app.coordinator.Capacity(r.Context(), &showtimes[i])
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		resp.Showtimes[i] = toShowtimeResponse(&showtimes[i])
		resp.Showtimes[i].Capacity = toCapacityResponse(capacity)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64) {
	showtime, err := app.showtimeRepo.GetById(r.Context(), showtimeId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toShowtimeResponse(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpdateShowtime corrects the listing details of a showtime. The seat layout
// cannot change once seats may have been sold.
func (app *Application) UpdateShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64) {
	var input api.UpdateShowtimeRequest

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

	update := domain.ShowtimeUpdate{
		Theater:  input.Theater,
		StartsAt: input.StartsAt,
	}

	if input.Price != nil {
		price, err := decimal.NewFromString(*input.Price)
		if err != nil || price.IsNegative() {
			app.fieldErrorResponse(w, r, "price", ErrNegativePrice)
			return
		}
		update.Price = &price
	}

	showtime, err := app.showtimeRepo.Update(r.Context(), showtimeId, update)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toShowtimeResponse(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// DeleteShowtime takes a showtime off the schedule once nothing is sold or held.
func (app *Application) DeleteShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64) {
	err := app.coordinator.DeleteShowtime(r.Context(), showtimeId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toShowtimeResponse(showtime *domain.Showtime) api.ShowtimeResponse {
	return api.ShowtimeResponse{
		Id:         showtime.ID,
		MovieId:    showtime.MovieID,
		MovieTitle: showtime.MovieTitle,
		Theater:    showtime.Theater,
		StartsAt:   showtime.StartsAt,
		Rows:       showtime.Rows,
		Columns:    showtime.Columns,
		Price:      showtime.Price.StringFixed(2),
		CreatedAt:  showtime.CreatedAt,
	}
}

func toCapacityResponse(capacity domain.Capacity) *api.CapacityResponse {
	return &api.CapacityResponse{
		TotalSeats:     capacity.Total,
		BookedCount:    capacity.Booked,
		HeldCount:      capacity.Held,
		AvailableCount: capacity.Available,
	}
}

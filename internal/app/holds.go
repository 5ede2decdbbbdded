package app

import (
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/booking"
)

// CreateHold holds the selected seats for the caller and remembers the hold
// in the session.
func (app *Application) CreateHold(w http.ResponseWriter, r *http.Request) {
	var input api.CreateHoldRequest

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

	hold, err := app.coordinator.BeginBooking(r.Context(), booking.BeginRequest{
		ShowtimeID: input.ShowtimeId,
		Seats:      input.SeatLabels,
		UserID:     input.UserId,
		Email:      deref(input.Email),
	})
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.rememberHold(r, hold.ID)

	resp := api.HoldResponse{
		HoldId:     hold.ID,
		ShowtimeId: hold.ShowtimeID,
		Seats:      hold.Seats,
		ExpiresAt:  hold.ExpiresAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseHold(w http.ResponseWriter, r *http.Request, holdId string) {
	err := app.coordinator.AbandonBooking(r.Context(), holdId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.forgetHold(r, holdId)

	w.WriteHeader(http.StatusNoContent)
}

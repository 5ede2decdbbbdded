package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var input api.CreateBookingRequest

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

	holdId := deref(input.HoldId)
	if holdId == "" {
		holdId = app.sessionHoldId(r)
	}

	if holdId == "" {
		app.badRequestResponse(w, r, errors.New(ErrHoldIdMissing))
		return
	}

	reservation, err := app.coordinator.ConfirmBooking(r.Context(), holdId, input.PaymentProof)
	if err != nil {
		var paymentErr *domain.PaymentError
		if errors.Is(err, domain.ErrHoldExpired) || errors.As(err, &paymentErr) {
			app.forgetHold(r, holdId)
		}

		app.bookingErrorResponse(w, r, err)
		return
	}

	app.forgetHold(r, holdId)

	app.contextGetLogger(r).Info("booking confirmed",
		"reservation_id", reservation.ID,
		"showtime_id", reservation.ShowtimeID,
		"seats", reservation.Seats)

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/reservations/%s", reservation.ID))

	err = app.writeJSON(w, http.StatusCreated, toReservationResponse(reservation), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

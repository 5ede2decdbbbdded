package app

import (
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

func (app *Application) GetReservation(w http.ResponseWriter, r *http.Request, reservationId string) {
	reservation, err := app.reservationRepo.Find(r.Context(), reservationId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toReservationResponse(reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelReservation(w http.ResponseWriter, r *http.Request, reservationId string) {
	err := app.coordinator.CancelBooking(r.Context(), reservationId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("reservation cancelled", "reservation_id", reservationId)

	err = app.writeJSON(w, http.StatusOK, api.SuccessResponse{Success: true}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservationsOfUser(
	w http.ResponseWriter,
	r *http.Request,
	userId int64,
	params api.GetReservationsOfUserParams) {

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reservations, metadata, err := app.reservationRepo.ListByUser(
		r.Context(), userId, toPagination(params.Page, params.PageSize))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeReservations(w, r, reservations, metadata)
}

// GetReservations lists every reservation across showtimes, newest first.
func (app *Application) GetReservations(w http.ResponseWriter, r *http.Request, params api.GetReservationsParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reservations, metadata, err := app.reservationRepo.ListAll(r.Context(), toPagination(params.Page, params.PageSize))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeReservations(w, r, reservations, metadata)
}

func (app *Application) writeReservations(
	w http.ResponseWriter,
	r *http.Request,
	reservations []domain.Reservation,
	metadata *domain.Metadata) {

	resp := api.ReservationsResponse{
		Reservations: make([]api.ReservationResponse, len(reservations)),
		Metadata:     toApiMetadata(metadata),
	}

	for i := range reservations {
		resp.Reservations[i] = toReservationResponse(&reservations[i])
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toReservationResponse(reservation *domain.Reservation) api.ReservationResponse {
	return api.ReservationResponse{
		Id:          reservation.ID,
		UserId:      reservation.UserID,
		ShowtimeId:  reservation.ShowtimeID,
		Seats:       reservation.Seats,
		TotalPrice:  reservation.TotalPrice.StringFixed(2),
		Status:      string(reservation.Status),
		CreatedAt:   reservation.CreatedAt,
		CancelledAt: reservation.CancelledAt,
	}
}

package app

import (
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

func (app *Application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64) {
	view, err := app.coordinator.ShowtimeSeats(r.Context(), showtimeId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toSeatMapResponse(view), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatMapResponse(view *domain.SeatMapView) api.SeatMapResponse {
	seats := make(map[string]string, len(view.Seats))
	for label, state := range view.Seats {
		seats[label] = string(state)
	}

	return api.SeatMapResponse{
		ShowtimeId:     view.ShowtimeID,
		Seats:          seats,
		BookedCount:    view.Capacity.Booked,
		HeldCount:      view.Capacity.Held,
		AvailableCount: view.Capacity.Available,
		TotalSeats:     view.Capacity.Total,
	}
}

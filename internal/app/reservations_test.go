package app

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/mocks"
	"github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReservationsTestSuite struct {
	suite.Suite
	env      *testEnv
	showtime *domain.Showtime
}

func (s *ReservationsTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.showtime = s.env.createShowtime(s.T(), 2, 3)
}

func TestReservationsSuite(t *testing.T) {
	suite.Run(t, new(ReservationsTestSuite))
}

func (s *ReservationsTestSuite) book(userId int64, seats ...string) api.ReservationResponse {
	w := s.env.do(s.T(), http.MethodPost, "/holds", api.CreateHoldRequest{
		ShowtimeId: s.showtime.ID,
		SeatLabels: seats,
		UserId:     userId,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.env.do(s.T(), http.MethodPost, "/bookings", api.CreateBookingRequest{PaymentProof: "pm_card_visa"}, sessionCookie(w))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	return decode[api.ReservationResponse](s.T(), w)
}

func (s *ReservationsTestSuite) TestGetReservation() {
	booked := s.book(1, "B2")

	w := s.env.do(s.T(), http.MethodGet, "/reservations/"+booked.Id, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	if diff := cmp.Diff(booked, decode[api.ReservationResponse](s.T(), w)); diff != "" {
		s.T().Errorf("reservation mismatch (-want +got):\n%s", diff)
	}

	w = s.env.do(s.T(), http.MethodGet, "/reservations/RES-UNKNOWN", nil)
	s.Equal(http.StatusNotFound, w.Code)
	checkErrorResponse(s.T(), w, api.CodeNotFound, ErrNotFound)
}

func (s *ReservationsTestSuite) TestCancelReservation() {
	booked := s.book(1, "A1", "A2")

	w := s.env.do(s.T(), http.MethodDelete, "/reservations/"+booked.Id, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(api.SuccessResponse{Success: true}, decode[api.SuccessResponse](s.T(), w))

	w = s.env.do(s.T(), http.MethodGet, fmt.Sprintf("/showtimes/%d/seats", s.showtime.ID), nil)
	seats := decode[api.SeatMapResponse](s.T(), w)
	s.Equal(0, seats.BookedCount)
	s.Equal(6, seats.AvailableCount)

	w = s.env.do(s.T(), http.MethodGet, "/reservations/"+booked.Id, nil)
	got := decode[api.ReservationResponse](s.T(), w)
	s.Equal(string(domain.ReservationCancelled), got.Status)
	s.NotNil(got.CancelledAt)

	w = s.env.do(s.T(), http.MethodDelete, "/reservations/"+booked.Id, nil)
	s.Equal(http.StatusConflict, w.Code)
	checkErrorResponse(s.T(), w, api.CodeAlreadyCancelled, ErrAlreadyCancelled)

	w = s.env.do(s.T(), http.MethodDelete, "/reservations/RES-UNKNOWN", nil)
	s.Equal(http.StatusNotFound, w.Code)

	// The released seats can be taken again straight away.
	s.book(2, "A1", "A2")
}

func (s *ReservationsTestSuite) TestGetReservationsOfUser() {
	first := s.book(1, "A1")
	s.book(2, "A2")
	s.env.clock.Advance(time.Minute)
	second := s.book(1, "B1", "B2")

	w := s.env.do(s.T(), http.MethodGet, "/users/1/reservations?page=1&page_size=1", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	resp := decode[api.ReservationsResponse](s.T(), w)
	s.Require().Len(resp.Reservations, 1)
	s.Equal(second.Id, resp.Reservations[0].Id)
	s.Equal(api.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 2, PageSize: 1, TotalRecords: 2}, resp.Metadata)

	w = s.env.do(s.T(), http.MethodGet, "/users/1/reservations?page=2&page_size=1", nil)
	resp = decode[api.ReservationsResponse](s.T(), w)
	s.Require().Len(resp.Reservations, 1)
	s.Equal(first.Id, resp.Reservations[0].Id)

	w = s.env.do(s.T(), http.MethodGet, "/users/3/reservations", nil)
	resp = decode[api.ReservationsResponse](s.T(), w)
	s.Empty(resp.Reservations)
	s.Equal(0, resp.Metadata.TotalRecords)
}

func (s *ReservationsTestSuite) TestGetReservations() {
	first := s.book(1, "A1")
	s.env.clock.Advance(time.Minute)
	second := s.book(2, "A2")

	w := s.env.do(s.T(), http.MethodDelete, "/reservations/"+first.Id, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.env.do(s.T(), http.MethodGet, "/reservations", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	resp := decode[api.ReservationsResponse](s.T(), w)
	s.Require().Len(resp.Reservations, 2)
	s.Equal(second.Id, resp.Reservations[0].Id)
	s.Equal(first.Id, resp.Reservations[1].Id)
	s.Equal(string(domain.ReservationCancelled), resp.Reservations[1].Status)
	s.Equal(api.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 1, PageSize: 10, TotalRecords: 2}, resp.Metadata)

	w = s.env.do(s.T(), http.MethodGet, "/reservations?page=2&page_size=1", nil)
	resp = decode[api.ReservationsResponse](s.T(), w)
	s.Require().Len(resp.Reservations, 1)
	s.Equal(first.Id, resp.Reservations[0].Id)

	w = s.env.do(s.T(), http.MethodGet, "/reservations?page_size=500", nil)
	checkErrorResponse(s.T(), w, api.CodeValidationFailed, fmt.Sprintf(validator.ErrMaxValue, "100"))
}

func (s *ReservationsTestSuite) TestGetReservationsOfUserInvalidParams() {
	tests := []struct {
		name      string
		url       string
		wantCode  api.ErrorCode
		wantIssue string
	}{
		{name: "invalid user id", url: "/users/zero/reservations", wantCode: api.CodeBadRequest},
		{name: "invalid page number", url: "/users/1/reservations?page=0", wantCode: api.CodeValidationFailed, wantIssue: fmt.Sprintf(validator.ErrMinValue, "1")},
		{name: "invalid page size", url: "/users/1/reservations?page_size=0", wantCode: api.CodeValidationFailed, wantIssue: fmt.Sprintf(validator.ErrMinValue, "1")},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.env.do(s.T(), http.MethodGet, tt.url, nil)
			checkErrorResponse(s.T(), w, tt.wantCode, tt.wantIssue)
		})
	}
}

func TestGetReservationsOfUser_RepositoryError(t *testing.T) {
	reservationRepo := new(mocks.MockReservationRepo)
	reservationRepo.On("ListByUser", mock.Anything, int64(1), domain.Pagination{Page: 1, PageSize: 10}).
		Return(nil, nil, errors.New("database error"))

	app := newTestApplication(func(a *Application) {
		a.reservationRepo = reservationRepo
	})

	w := serve(t, app.Routes(), http.MethodGet, "/users/1/reservations", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	checkErrorResponse(t, w, api.CodeInternal, ErrInternalServer)
}

func TestToReservationResponse(t *testing.T) {
	cancelledAt := time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC)

	got := toReservationResponse(&domain.Reservation{
		ID:          "RES-1",
		UserID:      4,
		ShowtimeID:  2,
		Seats:       []string{"C4", "C5"},
		TotalPrice:  decimal.RequireFromString("20"),
		Status:      domain.ReservationCancelled,
		PaymentRef:  "pi_1",
		CreatedAt:   time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
		CancelledAt: &cancelledAt,
	})

	want := api.ReservationResponse{
		Id:          "RES-1",
		UserId:      4,
		ShowtimeId:  2,
		Seats:       []string{"C4", "C5"},
		TotalPrice:  "20.00",
		Status:      "cancelled",
		CreatedAt:   time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
		CancelledAt: &cancelledAt,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("toReservationResponse() mismatch (-want +got):\n%s", diff)
	}
}

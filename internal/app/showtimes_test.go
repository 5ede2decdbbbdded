package app

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/booking"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/mocks"
	"github.com/metinatakli/showtime-booking/internal/seatmap"
	"github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ShowtimesTestSuite struct {
	suite.Suite
	env *testEnv
}

func (s *ShowtimesTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
}

func TestShowtimesSuite(t *testing.T) {
	suite.Run(t, new(ShowtimesTestSuite))
}

func (s *ShowtimesTestSuite) validShowtimeRequest() api.CreateShowtimeRequest {
	return api.CreateShowtimeRequest{
		MovieId:  s.env.movie.ID,
		Theater:  "Hall 3",
		StartsAt: time.Date(2025, 3, 15, 20, 30, 0, 0, time.UTC),
		Rows:     5,
		Columns:  8,
		Price:    "12.5",
	}
}

func (s *ShowtimesTestSuite) TestCreateShowtime() {
	tests := []struct {
		name      string
		modify    func(req *api.CreateShowtimeRequest)
		body      any
		wantCode  api.ErrorCode
		wantIssue string
	}{
		{
			name: "valid showtime",
		},
		{
			name:      "missing theater",
			modify:    func(req *api.CreateShowtimeRequest) { req.Theater = "" },
			wantCode:  api.CodeValidationFailed,
			wantIssue: validator.ErrRequired,
		},
		{
			name:      "movie not in catalog",
			modify:    func(req *api.CreateShowtimeRequest) { req.MovieId = 404 },
			wantCode:  api.CodeValidationFailed,
			wantIssue: ErrUnknownMovie,
		},
		{
			name:      "too many rows",
			modify:    func(req *api.CreateShowtimeRequest) { req.Rows = 27 },
			wantCode:  api.CodeValidationFailed,
			wantIssue: fmt.Sprintf(validator.ErrMaxValue, "26"),
		},
		{
			name:      "negative price",
			modify:    func(req *api.CreateShowtimeRequest) { req.Price = "-1" },
			wantCode:  api.CodeValidationFailed,
			wantIssue: ErrNegativePrice,
		},
		{
			name:     "malformed body",
			body:     `{"movie_id": "seven"}`,
			wantCode: api.CodeBadRequest,
		},
		{
			name:     "unknown field",
			body:     `{"seats": 40}`,
			wantCode: api.CodeBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.validShowtimeRequest()
			if tt.modify != nil {
				tt.modify(&req)
			}

			var body any = req
			if tt.body != nil {
				body = tt.body
			}

			w := s.env.do(s.T(), http.MethodPost, "/showtimes", body)

			if tt.wantCode != "" {
				checkErrorResponse(s.T(), w, tt.wantCode, tt.wantIssue)
				s.NotEqual(http.StatusCreated, w.Code)
				return
			}

			s.Equal(http.StatusCreated, w.Code)

			resp := decode[api.ShowtimeResponse](s.T(), w)
			s.NotZero(resp.Id)
			s.Equal("12.50", resp.Price)
			s.Equal("Arrival", resp.MovieTitle)
			s.Equal(fmt.Sprintf("/showtimes/%d", resp.Id), w.Header().Get("Location"))
		})
	}
}

func (s *ShowtimesTestSuite) TestGetShowtime() {
	showtime := s.env.createShowtime(s.T(), 2, 4)

	w := s.env.do(s.T(), http.MethodGet, fmt.Sprintf("/showtimes/%d", showtime.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	resp := decode[api.ShowtimeResponse](s.T(), w)
	want := api.ShowtimeResponse{
		Id:         showtime.ID,
		MovieId:    s.env.movie.ID,
		MovieTitle: "Arrival",
		Theater:    "Hall 3",
		StartsAt:   showtime.StartsAt,
		Rows:       2,
		Columns:    4,
		Price:      "12.99",
		CreatedAt:  showtime.CreatedAt,
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		s.T().Errorf("showtime mismatch (-want +got):\n%s", diff)
	}

	w = s.env.do(s.T(), http.MethodGet, "/showtimes/999", nil)
	s.Equal(http.StatusNotFound, w.Code)
	checkErrorResponse(s.T(), w, api.CodeNotFound, ErrNotFound)

	w = s.env.do(s.T(), http.MethodGet, "/showtimes/abc", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	checkErrorResponse(s.T(), w, api.CodeBadRequest, "showtimeId has an invalid format")
}

func (s *ShowtimesTestSuite) TestGetShowtimesIncludesCapacity() {
	first := s.env.createShowtime(s.T(), 1, 4)
	s.env.createShowtime(s.T(), 2, 2)

	w := s.env.do(s.T(), http.MethodPost, "/holds", api.CreateHoldRequest{
		ShowtimeId: first.ID,
		SeatLabels: []string{"A1", "A2"},
		UserId:     1,
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.env.do(s.T(), http.MethodGet, "/showtimes?page=1&page_size=10", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	resp := decode[api.ShowtimesResponse](s.T(), w)
	s.Require().Len(resp.Showtimes, 2)
	s.Equal(&api.CapacityResponse{TotalSeats: 4, HeldCount: 2, AvailableCount: 2}, resp.Showtimes[0].Capacity)
	s.Equal(&api.CapacityResponse{TotalSeats: 4, AvailableCount: 4}, resp.Showtimes[1].Capacity)
	s.Equal(2, resp.Metadata.TotalRecords)
}

func (s *ShowtimesTestSuite) TestGetShowtimesPagination() {
	tests := []struct {
		name      string
		query     string
		wantCode  api.ErrorCode
		wantIssue string
	}{
		{name: "page below minimum", query: "?page=0", wantCode: api.CodeValidationFailed, wantIssue: fmt.Sprintf(validator.ErrMinValue, "1")},
		{name: "page size above maximum", query: "?page_size=101", wantCode: api.CodeValidationFailed, wantIssue: fmt.Sprintf(validator.ErrMaxValue, "100")},
		{name: "page not a number", query: "?page=one", wantCode: api.CodeBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.env.do(s.T(), http.MethodGet, "/showtimes"+tt.query, nil)
			checkErrorResponse(s.T(), w, tt.wantCode, tt.wantIssue)
		})
	}
}

func (s *ShowtimesTestSuite) TestUpdateShowtime() {
	showtime := s.env.createShowtime(s.T(), 2, 4)
	url := fmt.Sprintf("/showtimes/%d", showtime.ID)

	w := s.env.do(s.T(), http.MethodPatch, url, api.UpdateShowtimeRequest{
		Theater: ptr("Hall 5"),
		Price:   ptr("9.5"),
	})
	s.Require().Equal(http.StatusOK, w.Code)

	resp := decode[api.ShowtimeResponse](s.T(), w)
	s.Equal("Hall 5", resp.Theater)
	s.Equal("9.50", resp.Price)
	s.Equal("Arrival", resp.MovieTitle)
	s.Equal(8, resp.Rows*resp.Columns)

	w = s.env.do(s.T(), http.MethodPatch, url, `{"rows": 3}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.env.do(s.T(), http.MethodPatch, url, `{"movie_title": "Heat"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.env.do(s.T(), http.MethodPatch, "/showtimes/404", api.UpdateShowtimeRequest{Theater: ptr("Hall 1")})
	s.Equal(http.StatusNotFound, w.Code)
}

func TestGetShowtimes_RepositoryError(t *testing.T) {
	showtimeRepo := new(mocks.MockShowtimeRepo)
	showtimeRepo.On("GetAll", mock.Anything, domain.Pagination{Page: 1, PageSize: 10}).
		Return(nil, nil, errors.New("database error"))

	app := newTestApplication(func(a *Application) {
		a.showtimeRepo = showtimeRepo
		a.coordinator = booking.NewCoordinator(showtimeRepo, seatmap.NewMemoryStore(),
			new(mocks.MockReservationRepo), new(mocks.MockPaymentProvider))
	})

	w := serve(t, app.Routes(), http.MethodGet, "/showtimes", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	checkErrorResponse(t, w, api.CodeInternal, ErrInternalServer)
}

func (s *ShowtimesTestSuite) TestDeleteShowtime() {
	showtime := s.env.createShowtime(s.T(), 1, 4)
	url := fmt.Sprintf("/showtimes/%d", showtime.ID)

	w := s.env.do(s.T(), http.MethodPost, "/holds", api.CreateHoldRequest{
		ShowtimeId: showtime.ID,
		SeatLabels: []string{"A1"},
		UserId:     1,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	hold := decode[api.HoldResponse](s.T(), w)

	w = s.env.do(s.T(), http.MethodDelete, url, nil)
	s.Equal(http.StatusConflict, w.Code)
	checkErrorResponse(s.T(), w, api.CodeInUse, ErrShowtimeInUse)

	w = s.env.do(s.T(), http.MethodDelete, "/holds/"+hold.HoldId, nil)
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.env.do(s.T(), http.MethodDelete, url, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.env.do(s.T(), http.MethodGet, url, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.env.do(s.T(), http.MethodDelete, url, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.env.do(s.T(), http.MethodPost, "/holds", api.CreateHoldRequest{
		ShowtimeId: showtime.ID,
		SeatLabels: []string{"A2"},
		UserId:     1,
	})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ShowtimesTestSuite) TestDeleteShowtimeWithReservations() {
	showtime := s.env.createShowtime(s.T(), 1, 4)

	w := s.env.do(s.T(), http.MethodPost, "/holds", api.CreateHoldRequest{
		ShowtimeId: showtime.ID,
		SeatLabels: []string{"A1"},
		UserId:     1,
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.env.do(s.T(), http.MethodPost, "/bookings", api.CreateBookingRequest{PaymentProof: "pm_card_visa"}, sessionCookie(w))
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.env.do(s.T(), http.MethodDelete, fmt.Sprintf("/showtimes/%d", showtime.ID), nil)
	s.Equal(http.StatusConflict, w.Code)
	checkErrorResponse(s.T(), w, api.CodeInUse, ErrShowtimeInUse)
}

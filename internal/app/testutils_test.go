package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/booking"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/payment"
	"github.com/metinatakli/showtime-booking/internal/repository"
	"github.com/metinatakli/showtime-booking/internal/seatmap"
	"github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv is an application wired to in-memory components.
type testEnv struct {
	app          *Application
	clock        *fakeClock
	movies       *repository.MemoryMovieRepository
	showtimes    *repository.MemoryShowtimeRepository
	reservations *repository.MemoryReservationRepository
	payments     *payment.MockPaymentProvider
	coordinator  *booking.Coordinator
	handler      http.Handler

	// movie is scheduled by createShowtime.
	movie *domain.Movie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		clock:        &fakeClock{now: time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC)},
		movies:       repository.NewMemoryMovieRepository(),
		reservations: repository.NewMemoryReservationRepository(),
		payments:     payment.NewMockPaymentProvider(),
	}
	env.showtimes = repository.NewMemoryShowtimeRepository(env.movies)
	env.movie = env.createMovie(t, "Arrival", time.Date(2016, 11, 11, 0, 0, 0, 0, time.UTC))

	env.coordinator = booking.NewCoordinator(
		env.showtimes,
		seatmap.NewMemoryStore(seatmap.WithClock(env.clock.Now)),
		env.reservations,
		env.payments,
		booking.WithClock(env.clock.Now),
	)

	env.app = newTestApplication(func(a *Application) {
		a.movieRepo = env.movies
		a.showtimeRepo = env.showtimes
		a.reservationRepo = env.reservations
		a.coordinator = env.coordinator
	})
	env.handler = env.app.Routes()

	return env
}

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:         Config{Env: "test"},
		validator:      validator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: NewSessionManager(nil),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func (env *testEnv) createMovie(t *testing.T, title string, releaseDate time.Time) *domain.Movie {
	t.Helper()

	movie := &domain.Movie{
		Title:       title,
		Description: "A linguist is recruited to talk to visitors",
		Genre:       "Sci-Fi",
		Duration:    116,
		ReleaseDate: releaseDate,
	}

	require.NoError(t, env.movies.Create(t.Context(), movie))

	return movie
}

// createShowtime adds a rows x columns showtime priced at 12.99 per seat.
func (env *testEnv) createShowtime(t *testing.T, rows, columns int) *domain.Showtime {
	t.Helper()

	showtime := &domain.Showtime{
		MovieID:  env.movie.ID,
		Theater:  "Hall 3",
		StartsAt: time.Date(2025, 3, 15, 20, 30, 0, 0, time.UTC),
		Rows:     rows,
		Columns:  columns,
		Price:    decimal.RequireFromString("12.99"),
	}

	require.NoError(t, env.showtimes.Create(t.Context(), showtime))

	return showtime
}

// do serves a request and returns the recorder. Cookies carry the session
// between calls.
func (env *testEnv) do(t *testing.T, method, url string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	return serve(t, env.handler, method, url, body, cookies...)
}

func serve(t *testing.T, h http.Handler, method, url string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		jsonData, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())

	return v
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}

	return nil
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantCode api.ErrorCode, wantIssue string) api.ErrorResponse {
	t.Helper()

	resp := decode[api.ErrorResponse](t, w)
	require.Equal(t, wantCode, resp.Error)

	if wantIssue == "" {
		return resp
	}

	if resp.Message == wantIssue {
		return resp
	}

	for _, vErr := range resp.ValidationErrors {
		if vErr.Issue == wantIssue {
			return resp
		}
	}

	t.Errorf("expected issue %q in response %+v", wantIssue, resp)

	return resp
}

func ptr[T any](v T) *T {
	return &v
}

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const mockAnything = mock.Anything

var keysToIgnore = map[string]struct{}{
	"timestamp":    {},
	"request_id":   {},
	"created_at":   {},
	"cancelled_at": {},
	"expires_at":   {},
	"hold_id":      {},
	"id":           {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func jsonBody(t testing.TB, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(data)
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore nondeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}

		switch v := m[k].(type) {
		case map[string]any:
			cleanMap(v)
		case []any:
			for _, item := range v {
				if nested, ok := item.(map[string]any); ok {
					cleanMap(nested)
				}
			}
		}
	}
}

// do sends a request through the application router.
func (a *TestApp) do(t testing.TB, method, url string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = jsonBody(t, body)
	}

	req, err := prepareRequest(method, url, reader, nil)
	require.NoError(t, err)

	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	a.App.Routes().ServeHTTP(rec, req)

	return rec
}

func ptr[T any](v T) *T {
	return &v
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}

	return nil
}

func createTestMovie(t testing.TB, a *TestApp, title string) *domain.Movie {
	t.Helper()

	movie := &domain.Movie{
		Title:       title,
		Description: "A movie used by the integration tests",
		Genre:       "Drama",
		Duration:    TestDuration,
		ReleaseDate: TestReleasedAt,
	}

	require.NoError(t, a.Movies.Create(context.Background(), movie))

	return movie
}

// createTestShowtime schedules a showtime of a new catalog movie. On empty
// tables the first call yields movie TestMovieId and showtime 1.
func createTestShowtime(t testing.TB, a *TestApp) *domain.Showtime {
	t.Helper()

	movie := createTestMovie(t, a, TestMovieTitle)

	showtime := &domain.Showtime{
		MovieID:  movie.ID,
		Theater:  TestTheater,
		StartsAt: TestStartsAt,
		Rows:     TestRows,
		Columns:  TestColumns,
		Price:    decimal.RequireFromString(TestPrice),
	}

	require.NoError(t, a.Showtimes.Create(context.Background(), showtime))

	return showtime
}

func countRows(t testing.TB, a *TestApp, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, a.DB.QueryRow(context.Background(), query, args...).Scan(&n))

	return n
}

func seatsJSON(labels ...string) string {
	return `["` + strings.Join(labels, `","`) + `"]`
}

func jsonDecode(r io.Reader, dst any) error {
	return json.NewDecoder(r).Decode(dst)
}

func mockEventOfType(eventType string) any {
	return mock.MatchedBy(func(event domain.BookingEvent) bool {
		return event.Type == eventType
	})
}

// assertLedgerMatchesSeatMap checks that the BOOKED seats in Redis are exactly
// the seats of confirmed reservations in Postgres.
func assertLedgerMatchesSeatMap(t testing.TB, a *TestApp, showtimeID int64) {
	t.Helper()

	ctx := context.Background()

	confirmed, err := a.Reservations.ConfirmedSeats(ctx)
	require.NoError(t, err)

	showtime, err := a.Showtimes.GetById(ctx, showtimeID)
	require.NoError(t, err)

	states, err := a.Store.SeatStates(ctx, showtimeID, showtime.Layout())
	require.NoError(t, err)

	want := slices.Clone(confirmed[showtimeID])
	got := states.Labels(domain.SeatBooked)

	slices.Sort(want)
	slices.Sort(got)

	assert.Equal(t, want, got)
}

package integration_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/showtime-booking/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "showtime_booking"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

type BaseSuite struct {
	suite.Suite
	app            *TestApp
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	s.Require().NoError(err, "failed to start database container")

	redisContainer, err := getCacheContainer(ctx)
	s.Require().NoError(err, "failed to start cache container")

	s.dbContainer = postgresContainer
	s.cacheContainer = redisContainer

	cfg := app.Config{
		Port: 3000,
		Env:  "test",
		DB: app.DBConfig{
			DSN:          postgresContainer.ConnectionString,
			MaxOpenConns: 25,
			MaxIdleTime:  2 * time.Minute,
		},
		Redis: app.RedisConfig{
			URL:          redisContainer.ConnectionString,
			MaxOpenConns: 10,
			MaxIdleConns: 10,
			MaxIdleTime:  2 * time.Minute,
		},
		Booking: app.BookingConfig{
			HoldTTL: 10 * time.Minute,
		},
	}

	testApp, err := newTestApp(cfg)
	s.Require().NoError(err, "cannot initialize app")

	s.app = testApp
}

func (s *BaseSuite) TearDownSuite() {
	if s.app != nil {
		s.app.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

// SetupTest gives every test a fresh coordinator, empty tables and an empty Redis.
func (s *BaseSuite) SetupTest() {
	ctx := context.Background()

	s.app.reset()

	_, err := s.app.DB.Exec(ctx, "TRUNCATE reservation_seats, reservations, showtimes, movies RESTART IDENTITY CASCADE")
	s.Require().NoError(err)

	s.Require().NoError(s.app.Redis.FlushAll(ctx).Err())
}

type Scenario struct {
	Name             string
	Method           string
	URL              string
	Body             io.Reader
	Headers          map[string]string
	Cookies          []*http.Cookie
	ExpectedStatus   int
	ExpectedResponse string
	BeforeTestFunc   func(t testing.TB, app *TestApp)
	AfterTestFunc    func(t testing.TB, app *TestApp, res *http.Response)
}

func (s Scenario) Run(t *testing.T, testApp *TestApp) {
	t.Run(s.Name, func(t *testing.T) {
		req, err := prepareRequest(s.Method, s.URL, s.Body, s.Headers)
		require.NoError(t, err)

		for _, c := range s.Cookies {
			req.AddCookie(c)
		}

		if s.BeforeTestFunc != nil {
			s.BeforeTestFunc(t, testApp)
		}

		rec := httptest.NewRecorder()
		testApp.App.Routes().ServeHTTP(rec, req)

		res := rec.Result()
		defer res.Body.Close()

		assert.Equal(t, s.ExpectedStatus, res.StatusCode)

		if s.ExpectedResponse != "" {
			compareResponse(t, res.Body, s.ExpectedResponse)
		}

		if s.AfterTestFunc != nil {
			s.AfterTestFunc(t, testApp, res)
		}
	})
}

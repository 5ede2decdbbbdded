package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/app"
	"github.com/metinatakli/showtime-booking/internal/booking"
	"github.com/metinatakli/showtime-booking/internal/mailer"
	"github.com/metinatakli/showtime-booking/internal/mocks"
	"github.com/metinatakli/showtime-booking/internal/payment"
	"github.com/metinatakli/showtime-booking/internal/repository"
	"github.com/metinatakli/showtime-booking/internal/seatmap"
	appvalidator "github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

type TestApp struct {
	App          *app.Application
	DB           *pgxpool.Pool
	Redis        *redis.Client
	Coordinator  *booking.Coordinator
	Movies       *repository.PostgresMovieRepository
	Showtimes    *repository.PostgresShowtimeRepository
	Reservations *repository.PostgresReservationRepository
	Store        *seatmap.RedisStore
	Payments     *payment.MockPaymentProvider
	Mailer       *mailer.MockMailer
	Events       *mocks.MockEventPublisher

	cfg    app.Config
	logger *slog.Logger
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &TestApp{
		DB:           db,
		Redis:        redisClient,
		Movies:       repository.NewPostgresMovieRepository(db),
		Showtimes:    repository.NewPostgresShowtimeRepository(db),
		Reservations: repository.NewPostgresReservationRepository(db),
		Store:        seatmap.NewRedisStore(redisClient),
		cfg:          cfg,
		logger:       slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	a.reset()

	return a, nil
}

// reset replaces the coordinator and its collaborators. Tables restart their
// identities between tests, so state the coordinator keeps per showtime id
// must not leak into the next test.
func (a *TestApp) reset() {
	if a.Coordinator != nil {
		a.Coordinator.Wait()
	}

	a.Payments = payment.NewMockPaymentProvider()
	a.Mailer = mailer.NewMockMailer()

	a.Events = new(mocks.MockEventPublisher)
	a.Events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	a.Coordinator = booking.NewCoordinator(
		a.Showtimes,
		a.Store,
		a.Reservations,
		a.Payments,
		booking.WithLogger(a.logger),
		booking.WithHoldTTL(a.cfg.Booking.HoldTTL),
		booking.WithMailer(a.Mailer),
		booking.WithEventPublisher(a.Events),
	)

	a.App = app.NewApp(
		a.cfg,
		a.logger,
		appvalidator.NewValidator(),
		app.NewSessionManager(a.Redis),
		a.Movies,
		a.Showtimes,
		a.Reservations,
		a.Coordinator,
	)
}

func (a *TestApp) Close() {
	a.Coordinator.Wait()
	a.Redis.Close()
	a.DB.Close()
}

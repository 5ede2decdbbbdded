package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/booking"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/events"
	"github.com/metinatakli/showtime-booking/internal/mailer"
	"github.com/metinatakli/showtime-booking/internal/payment"
	"github.com/metinatakli/showtime-booking/internal/repository"
	"github.com/metinatakli/showtime-booking/internal/seatmap"
	appvalidator "github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/metinatakli/showtime-booking/internal/vcs"
	"github.com/metinatakli/showtime-booking/migrations"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "showtime-booking"

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	movieRepo       domain.MovieRepository
	showtimeRepo    domain.ShowtimeRepository
	reservationRepo domain.ReservationRepository

	coordinator *booking.Coordinator
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	validator *validator.Validate,
	sessionManager *scs.SessionManager,
	movieRepo domain.MovieRepository,
	showtimeRepo domain.ShowtimeRepository,
	reservationRepo domain.ReservationRepository,
	coordinator *booking.Coordinator) *Application {

	return &Application{
		config:          cfg,
		logger:          logger,
		validator:       validator,
		sessionManager:  sessionManager,
		movieRepo:       movieRepo,
		showtimeRepo:    showtimeRepo,
		reservationRepo: reservationRepo,
		coordinator:     coordinator,
	}
}

func Run() error {
	cfg, displayVersion, err := LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		return nil
	}

	textHandler := slog.NewTextHandler(os.Stdout, nil)
	logger := slog.New(textHandler)

	shutdownTelemetry, err := InitTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(textHandler, otelslog.NewHandler(serviceName)))
	}

	var (
		movieRepo       domain.MovieRepository
		showtimeRepo    domain.ShowtimeRepository
		reservationRepo domain.ReservationRepository
	)

	if cfg.DB.DSN != "" {
		if cfg.Migrate {
			err = RunMigrations(cfg.DB.DSN)
			if err != nil {
				return err
			}
			logger.Info("database migrations applied")
		}

		db, err := NewDatabasePool(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		movieRepo = repository.NewPostgresMovieRepository(db)
		showtimeRepo = repository.NewPostgresShowtimeRepository(db)
		reservationRepo = repository.NewPostgresReservationRepository(db)
	} else {
		logger.Warn("no database DSN set, movies, showtimes and reservations are kept in memory")

		catalog := repository.NewMemoryMovieRepository()
		movieRepo = catalog
		showtimeRepo = repository.NewMemoryShowtimeRepository(catalog)
		reservationRepo = repository.NewMemoryReservationRepository()
	}

	var (
		store          domain.SeatMapStore
		sessionManager *scs.SessionManager
	)

	if cfg.Redis.URL != "" {
		redisClient, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		store = seatmap.NewRedisStore(redisClient)
		sessionManager = NewSessionManager(redisClient)
	} else {
		logger.Warn("no Redis URL set, seat holds and sessions are kept in memory")

		store = seatmap.NewMemoryStore()
		sessionManager = NewSessionManager(nil)
	}

	publisher, err := newEventPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	opts := []booking.Option{
		booking.WithLogger(logger),
		booking.WithHoldTTL(cfg.Booking.HoldTTL),
		booking.WithEventPublisher(publisher),
	}

	if cfg.SMTP.Host != "" {
		opts = append(opts, booking.WithMailer(
			mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)))
	}

	coordinator := booking.NewCoordinator(showtimeRepo, store, reservationRepo, newPaymentProvider(cfg, logger), opts...)

	err = coordinator.Reconcile(context.Background())
	if err != nil {
		return fmt.Errorf("reconciling seat map: %w", err)
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	go coordinator.RunSweeper(sweepCtx, cfg.Booking.SweepInterval)

	app := NewApp(
		cfg,
		logger,
		appvalidator.NewValidator(),
		sessionManager,
		movieRepo,
		showtimeRepo,
		reservationRepo,
		coordinator,
	)

	return app.run()
}

func newPaymentProvider(cfg Config, logger *slog.Logger) domain.PaymentProvider {
	if cfg.Stripe.SecretKey == "" {
		logger.Warn("no Stripe key set, payments are simulated")
		return payment.NewMockPaymentProvider()
	}

	return payment.NewStripePaymentProvider(cfg.Stripe.SecretKey)
}

func newEventPublisher(cfg Config) (domain.EventPublisher, error) {
	switch cfg.Events.Broker {
	case BrokerAMQP:
		return events.NewAMQPPublisher(cfg.Events.AMQPURL)
	case BrokerKafka:
		return events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic), nil
	case BrokerNone, "":
		return events.NewNoopPublisher(), nil
	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.Events.Broker)
	}
}

// NewSessionManager stores sessions in Redis, or in process memory when client is nil.
func NewSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	if client != nil {
		sessionManager.Store = goredisstore.New(client)
	} else {
		sessionManager.Store = memstore.New()
	}

	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the embedded SQL migrations to the database behind dsn.
func RunMigrations(dsn string) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrationURL(dsn))
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// migrationURL points a postgres DSN at the pgx v5 migrate driver.
func migrationURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}

	return dsn
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
			return
		}

		app.logger.Info("completing background tasks", "addr", srv.Addr)

		app.coordinator.Wait()

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "version", version)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

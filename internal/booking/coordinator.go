// Package booking coordinates seat holds, payment and the reservation ledger so
// that the seat map and the confirmed reservations never disagree.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/events"
	"github.com/metinatakli/showtime-booking/internal/mailer"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultHoldTTL = 10 * time.Minute

	ReceiptTemplate = "booking_receipt.tmpl"

	scopeName         = "github.com/metinatakli/showtime-booking/internal/booking"
	maxAppendAttempts = 3
	sideEffectTimeout = 30 * time.Second
)

type BeginRequest struct {
	ShowtimeID int64
	Seats      []string
	UserID     int64
	Email      string
}

type Option func(*Coordinator)

func WithHoldTTL(ttl time.Duration) Option {
	return func(c *Coordinator) {
		if ttl > 0 {
			c.holdTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithEventPublisher(publisher domain.EventPublisher) Option {
	return func(c *Coordinator) {
		if publisher != nil {
			c.events = publisher
		}
	}
}

// WithMailer enables receipt mails for holds that carry an email address.
func WithMailer(m mailer.Mailer) Option {
	return func(c *Coordinator) {
		c.mailer = m
	}
}

type Coordinator struct {
	showtimes domain.ShowtimeRepository
	store     domain.SeatMapStore
	ledger    domain.ReservationRepository
	payments  domain.PaymentProvider
	events    domain.EventPublisher
	mailer    mailer.Mailer

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics
	holdTTL time.Duration
	now     func() time.Time

	// gates serialise confirmations and cancellations of a showtime against
	// holds and seat queries of the same showtime.
	gatesMu sync.Mutex
	gates   map[int64]*sync.RWMutex
	retired map[int64]bool

	wg sync.WaitGroup
}

func NewCoordinator(
	showtimes domain.ShowtimeRepository,
	store domain.SeatMapStore,
	ledger domain.ReservationRepository,
	payments domain.PaymentProvider,
	opts ...Option) *Coordinator {

	c := &Coordinator{
		showtimes: showtimes,
		store:     store,
		ledger:    ledger,
		payments:  payments,
		events:    events.NewNoopPublisher(),
		logger:    slog.New(slog.DiscardHandler),
		tracer:    otel.Tracer(scopeName),
		metrics:   newMetrics(otel.Meter(scopeName)),
		holdTTL:   DefaultHoldTTL,
		now:       time.Now,
		gates:     make(map[int64]*sync.RWMutex),
		retired:   make(map[int64]bool),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Coordinator) gate(showtimeID int64) *sync.RWMutex {
	c.gatesMu.Lock()
	defer c.gatesMu.Unlock()

	g, ok := c.gates[showtimeID]
	if !ok {
		g = &sync.RWMutex{}
		c.gates[showtimeID] = g
	}

	return g
}

func (c *Coordinator) isRetired(showtimeID int64) bool {
	c.gatesMu.Lock()
	defer c.gatesMu.Unlock()

	return c.retired[showtimeID]
}

// tryHold must run under the read side of the showtime gate. A showtime
// deleted since it was loaded takes no more holds.
func (c *Coordinator) tryHold(ctx context.Context, hold *domain.Hold) error {
	if c.isRetired(hold.ShowtimeID) {
		return domain.ErrRecordNotFound
	}

	return c.store.TryHold(ctx, hold)
}

func (c *Coordinator) transition(ctx context.Context, logger *slog.Logger, state domain.BookingState) {
	logger.InfoContext(ctx, "booking state changed", "state", state)
	c.metrics.transitions.Add(ctx, 1, stateAttr(state))
}

// BeginBooking validates the selection against the showtime layout and places
// an all-or-nothing hold on it.
func (c *Coordinator) BeginBooking(ctx context.Context, req BeginRequest) (*domain.Hold, error) {
	ctx, span := c.tracer.Start(ctx, "booking.BeginBooking",
		trace.WithAttributes(attribute.Int64("showtime.id", req.ShowtimeID)))
	defer span.End()

	logger := c.logger.With("showtime_id", req.ShowtimeID, "user_id", req.UserID)
	c.transition(ctx, logger, domain.BookingSelecting)

	showtime, err := c.showtimes.GetById(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	seats, err := showtime.Layout().Validate(req.Seats)
	if err != nil {
		return nil, err
	}

	now := c.now()
	hold := &domain.Hold{
		ID:         uuid.NewString(),
		ShowtimeID: showtime.ID,
		UserID:     req.UserID,
		Seats:      seats,
		Email:      req.Email,
		ExpiresAt:  now.Add(c.holdTTL),
		CreatedAt:  now,
	}

	gate := c.gate(showtime.ID)
	gate.RLock()
	err = c.tryHold(ctx, hold)
	gate.RUnlock()

	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}

		var conflict *domain.SeatConflictError
		if errors.As(err, &conflict) {
			logger.InfoContext(ctx, "seat selection conflicts with existing holds", "seats", conflict.Seats)
			c.metrics.conflicts.Add(ctx, 1)
			return nil, err
		}

		span.RecordError(err)
		return nil, fmt.Errorf("holding seats: %w", err)
	}

	c.transition(ctx, logger.With("hold_id", hold.ID), domain.BookingHolding)

	return hold, nil
}

// ConfirmBooking charges the customer for a live hold, turns the held seats into
// booked seats and records the reservation. A failed charge releases the hold
// at once.
func (c *Coordinator) ConfirmBooking(ctx context.Context, holdID, paymentProof string) (*domain.Reservation, error) {
	ctx, span := c.tracer.Start(ctx, "booking.ConfirmBooking")
	defer span.End()

	logger := c.logger.With("hold_id", holdID)

	hold, err := c.store.Hold(ctx, holdID)
	if err != nil {
		if errors.Is(err, domain.ErrHoldExpired) {
			c.transition(ctx, logger, domain.BookingExpired)
		}
		return nil, err
	}

	logger = logger.With("showtime_id", hold.ShowtimeID, "user_id", hold.UserID)
	span.SetAttributes(attribute.Int64("showtime.id", hold.ShowtimeID))

	showtime, err := c.showtimes.GetById(ctx, hold.ShowtimeID)
	if err != nil {
		return nil, err
	}

	c.transition(ctx, logger, domain.BookingPaymentPending)

	amount := showtime.TotalPrice(len(hold.Seats))

	receipt, err := c.payments.Charge(ctx, domain.PaymentRequest{
		HoldID:      hold.ID,
		UserID:      hold.UserID,
		ShowtimeID:  hold.ShowtimeID,
		Amount:      amount,
		Currency:    domain.DefaultCurrency,
		Proof:       paymentProof,
		Description: fmt.Sprintf("%s - %s", showtime.MovieTitle, showtime.Theater),
	})
	if err != nil {
		return nil, c.failPayment(context.WithoutCancel(ctx), logger, hold, err)
	}

	logger = logger.With("payment_ref", receipt.Reference)

	// The customer has been charged; the rest must run to completion.
	ctx = context.WithoutCancel(ctx)

	gate := c.gate(hold.ShowtimeID)
	gate.Lock()
	defer gate.Unlock()

	seats, err := c.store.Commit(ctx, hold.ShowtimeID, hold.ID)
	if err != nil {
		refundErr := c.refund(ctx, logger, receipt.Reference)

		if errors.Is(err, domain.ErrHoldExpired) {
			c.transition(ctx, logger, domain.BookingExpired)
			c.metrics.confirmations.Add(ctx, 1, outcomeAttr("expired"))
			return nil, errors.Join(domain.ErrHoldExpired, refundErr)
		}

		span.RecordError(err)
		return nil, errors.Join(fmt.Errorf("committing hold: %w", err), refundErr)
	}

	reservation, err := c.appendReservation(ctx, hold, seats, amount, receipt.Reference)
	if err != nil {
		logger.ErrorContext(ctx, "failed to record reservation, releasing seats", "error", err)

		releaseErr := c.store.ReleaseSeats(ctx, hold.ShowtimeID, seats)
		if releaseErr != nil {
			logger.ErrorContext(ctx, "failed to release seats of unrecorded reservation",
				"seats", seats, "error", releaseErr)
		}

		refundErr := c.refund(ctx, logger, receipt.Reference)

		span.SetStatus(codes.Error, "reservation not recorded")
		c.metrics.confirmations.Add(ctx, 1, outcomeAttr("failed"))

		return nil, errors.Join(fmt.Errorf("recording reservation: %w", err), releaseErr, refundErr)
	}

	c.transition(ctx, logger.With("reservation_id", reservation.ID), domain.BookingConfirmed)
	c.metrics.confirmations.Add(ctx, 1, outcomeAttr("confirmed"))

	c.announce(ctx, domain.EventBookingConfirmed, reservation, showtime)

	if hold.Email != "" && c.mailer != nil {
		c.sendReceipt(ctx, hold.Email, reservation, showtime)
	}

	return reservation, nil
}

func (c *Coordinator) appendReservation(
	ctx context.Context,
	hold *domain.Hold,
	seats []string,
	amount decimal.Decimal,
	paymentRef string) (*domain.Reservation, error) {

	reservation := &domain.Reservation{
		UserID:     hold.UserID,
		ShowtimeID: hold.ShowtimeID,
		Seats:      seats,
		TotalPrice: amount,
		Status:     domain.ReservationConfirmed,
		PaymentRef: paymentRef,
	}

	var err error

	for attempt := 1; ; attempt++ {
		reservation.ID = domain.NewReservationID()
		reservation.CreatedAt = c.now()

		err = c.ledger.Append(ctx, reservation)
		if !errors.Is(err, domain.ErrDuplicateID) || attempt == maxAppendAttempts {
			break
		}
	}

	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func (c *Coordinator) failPayment(ctx context.Context, logger *slog.Logger, hold *domain.Hold, cause error) error {
	var paymentErr *domain.PaymentError
	if !errors.As(cause, &paymentErr) {
		paymentErr = &domain.PaymentError{Reason: "payment could not be processed", Err: cause}
	}

	logger.InfoContext(ctx, "payment failed, releasing hold", "reason", paymentErr.Reason)

	gate := c.gate(hold.ShowtimeID)
	gate.RLock()
	err := c.store.ReleaseHold(ctx, hold.ShowtimeID, hold.ID)
	gate.RUnlock()

	if err != nil {
		logger.ErrorContext(ctx, "failed to release hold after payment failure", "error", err)
	}

	c.transition(ctx, logger, domain.BookingAbandoned)
	c.metrics.confirmations.Add(ctx, 1, outcomeAttr("payment_failed"))

	return paymentErr
}

func (c *Coordinator) refund(ctx context.Context, logger *slog.Logger, reference string) error {
	err := c.payments.Refund(ctx, reference)
	if err != nil {
		logger.ErrorContext(ctx, "failed to refund charge", "error", err)
		return fmt.Errorf("refunding %s: %w", reference, err)
	}

	logger.InfoContext(ctx, "charge refunded")

	return nil
}

// AbandonBooking releases a hold before payment. Holds that are already gone
// are ignored.
func (c *Coordinator) AbandonBooking(ctx context.Context, holdID string) error {
	hold, err := c.store.Hold(ctx, holdID)
	if err != nil {
		if errors.Is(err, domain.ErrHoldExpired) {
			return nil
		}
		return err
	}

	gate := c.gate(hold.ShowtimeID)
	gate.RLock()
	err = c.store.ReleaseHold(ctx, hold.ShowtimeID, hold.ID)
	gate.RUnlock()

	if err != nil {
		return fmt.Errorf("releasing hold: %w", err)
	}

	logger := c.logger.With("hold_id", hold.ID, "showtime_id", hold.ShowtimeID, "user_id", hold.UserID)
	c.transition(ctx, logger, domain.BookingAbandoned)

	return nil
}

// CancelBooking cancels a confirmed reservation and returns its seats to the
// showtime.
func (c *Coordinator) CancelBooking(ctx context.Context, reservationID string) error {
	ctx, span := c.tracer.Start(ctx, "booking.CancelBooking",
		trace.WithAttributes(attribute.String("reservation.id", reservationID)))
	defer span.End()

	reservation, err := c.ledger.Find(ctx, reservationID)
	if err != nil {
		return err
	}

	gate := c.gate(reservation.ShowtimeID)
	gate.Lock()
	defer gate.Unlock()

	// Re-read under the gate; a concurrent cancellation may have won.
	reservation, err = c.ledger.Find(ctx, reservationID)
	if err != nil {
		return err
	}

	if reservation.Status == domain.ReservationCancelled {
		return domain.ErrAlreadyCancelled
	}

	logger := c.logger.With("reservation_id", reservation.ID, "showtime_id", reservation.ShowtimeID)
	ctx = context.WithoutCancel(ctx)

	err = c.store.ReleaseSeats(ctx, reservation.ShowtimeID, reservation.Seats)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("releasing seats: %w", err)
	}

	err = c.ledger.MarkCancelled(ctx, reservation.ID)
	if err != nil {
		restoreErr := c.restoreSeats(ctx, logger, reservation)
		if restoreErr != nil {
			span.RecordError(restoreErr)
			span.SetStatus(codes.Error, "seat map diverged from ledger")
		}

		return errors.Join(err, restoreErr)
	}

	logger.InfoContext(ctx, "reservation cancelled", "seats", reservation.Seats)
	c.metrics.cancellations.Add(ctx, 1)

	if showtime, err := c.showtimes.GetById(ctx, reservation.ShowtimeID); err == nil {
		reservation.Status = domain.ReservationCancelled
		c.announce(ctx, domain.EventBookingCancelled, reservation, showtime)
	} else {
		logger.WarnContext(ctx, "skipping cancellation event", "error", err)
	}

	return nil
}

// restoreSeats books the seats of a reservation that is still confirmed after a
// failed cancellation. The gate only covers this process, so another instance
// may have held some of them in the meantime. Those stay diverged until the
// next Reconcile and are logged for the operator.
func (c *Coordinator) restoreSeats(ctx context.Context, logger *slog.Logger, reservation *domain.Reservation) error {
	err := c.store.Book(ctx, reservation.ShowtimeID, reservation.Seats)
	if err == nil {
		return nil
	}

	var conflict *domain.SeatConflictError
	if !errors.As(err, &conflict) {
		logger.ErrorContext(ctx, "failed to restore seats of reservation that could not be cancelled",
			"seats", reservation.Seats, "error", err)
		c.metrics.divergedSeats.Add(ctx, int64(len(reservation.Seats)))
		return fmt.Errorf("restoring seats: %w", err)
	}

	diverged := conflict.Seats
	rest := slices.DeleteFunc(slices.Clone(reservation.Seats), func(label string) bool {
		return slices.Contains(diverged, label)
	})

	if len(rest) > 0 {
		if bookErr := c.store.Book(ctx, reservation.ShowtimeID, rest); bookErr != nil {
			logger.ErrorContext(ctx, "failed to restore remaining seats", "seats", rest, "error", bookErr)
			diverged = reservation.Seats
		}
	}

	logger.ErrorContext(ctx, "seat map diverged from ledger, run reconcile to repair",
		"diverged_seats", diverged,
		"reservation_seats", reservation.Seats)
	c.metrics.divergedSeats.Add(ctx, int64(len(diverged)))

	return fmt.Errorf("restoring seats: %w", err)
}

// DeleteShowtime unlists a showtime that has no confirmed reservations and no
// seats on hold, then drops its seat map. It holds the showtime gate for
// writing, so no hold or confirmation can slip in while it checks.
func (c *Coordinator) DeleteShowtime(ctx context.Context, showtimeID int64) error {
	ctx, span := c.tracer.Start(ctx, "booking.DeleteShowtime",
		trace.WithAttributes(attribute.Int64("showtime.id", showtimeID)))
	defer span.End()

	gate := c.gate(showtimeID)
	gate.Lock()
	defer gate.Unlock()

	showtime, err := c.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return err
	}

	confirmed, err := c.ledger.HasConfirmed(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("checking reservations: %w", err)
	}

	states, err := c.store.SeatStates(ctx, showtimeID, showtime.Layout())
	if err != nil {
		return fmt.Errorf("reading seat map: %w", err)
	}

	if confirmed || len(states.Labels(domain.SeatHeld)) > 0 {
		return domain.ErrShowtimeInUse
	}

	err = c.showtimes.Delete(ctx, showtimeID)
	if err != nil {
		return err
	}

	c.gatesMu.Lock()
	c.retired[showtimeID] = true
	c.gatesMu.Unlock()

	logger := c.logger.With("showtime_id", showtimeID)

	err = c.store.DropShowtime(context.WithoutCancel(ctx), showtimeID)
	if err != nil {
		span.RecordError(err)
		logger.WarnContext(ctx, "failed to drop seat map of deleted showtime", "error", err)
	}

	logger.InfoContext(ctx, "showtime deleted", "movie_id", showtime.MovieID)

	return nil
}

// ShowtimeSeats returns the state of every seat of a showtime together with the
// capacity derived from it.
func (c *Coordinator) ShowtimeSeats(ctx context.Context, showtimeID int64) (*domain.SeatMapView, error) {
	showtime, err := c.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	states, err := c.snapshot(ctx, showtime)
	if err != nil {
		return nil, err
	}

	return &domain.SeatMapView{
		ShowtimeID: showtime.ID,
		Seats:      states,
		Capacity:   domain.NewCapacity(showtime.Layout(), states),
	}, nil
}

// Capacity derives the seat counts of an already loaded showtime.
func (c *Coordinator) Capacity(ctx context.Context, showtime *domain.Showtime) (domain.Capacity, error) {
	states, err := c.snapshot(ctx, showtime)
	if err != nil {
		return domain.Capacity{}, err
	}

	return domain.NewCapacity(showtime.Layout(), states), nil
}

func (c *Coordinator) snapshot(ctx context.Context, showtime *domain.Showtime) (domain.SeatStates, error) {
	gate := c.gate(showtime.ID)
	gate.RLock()
	defer gate.RUnlock()

	states, err := c.store.SeatStates(ctx, showtime.ID, showtime.Layout())
	if err != nil {
		return nil, fmt.Errorf("reading seat map: %w", err)
	}

	return states, nil
}

// Reconcile books the seats of every confirmed reservation that the seat map
// does not already report as booked. It runs once at start-up.
func (c *Coordinator) Reconcile(ctx context.Context) error {
	confirmed, err := c.ledger.ConfirmedSeats(ctx)
	if err != nil {
		return fmt.Errorf("loading confirmed seats: %w", err)
	}

	restored := 0

	for showtimeID, labels := range confirmed {
		showtime, err := c.showtimes.GetById(ctx, showtimeID)
		if err != nil {
			return fmt.Errorf("loading showtime %d: %w", showtimeID, err)
		}

		states, err := c.snapshot(ctx, showtime)
		if err != nil {
			return err
		}

		var missing []string
		for _, label := range labels {
			if states[label] != domain.SeatBooked {
				missing = append(missing, label)
			}
		}

		if len(missing) == 0 {
			continue
		}

		gate := c.gate(showtimeID)
		gate.Lock()
		err = c.store.Book(ctx, showtimeID, missing)
		gate.Unlock()

		if err != nil {
			return fmt.Errorf("restoring seats of showtime %d: %w", showtimeID, err)
		}

		restored += len(missing)
	}

	c.logger.InfoContext(ctx, "seat map reconciled with ledger", "showtimes", len(confirmed), "restored_seats", restored)

	return nil
}

// SweepExpiredHolds drops every hold whose time limit has passed.
func (c *Coordinator) SweepExpiredHolds(ctx context.Context) (int, error) {
	n, err := c.store.Sweep(ctx)
	if n > 0 {
		c.metrics.expiredHolds.Add(ctx, int64(n))
		c.logger.InfoContext(ctx, "expired holds released", "count", n)
	}

	return n, err
}

func (c *Coordinator) announce(
	ctx context.Context,
	eventType string,
	reservation *domain.Reservation,
	showtime *domain.Showtime) {

	event := domain.BookingEvent{
		Type:          eventType,
		ReservationID: reservation.ID,
		UserID:        reservation.UserID,
		ShowtimeID:    reservation.ShowtimeID,
		MovieTitle:    showtime.MovieTitle,
		Theater:       showtime.Theater,
		StartsAt:      showtime.StartsAt,
		Seats:         reservation.Seats,
		TotalPrice:    reservation.TotalPrice,
		OccurredAt:    c.now(),
	}

	c.background(ctx, "publish "+eventType, func(ctx context.Context) error {
		return c.events.Publish(ctx, event)
	})
}

func (c *Coordinator) sendReceipt(
	ctx context.Context,
	email string,
	reservation *domain.Reservation,
	showtime *domain.Showtime) {

	data := map[string]any{
		"reservationID": reservation.ID,
		"movieTitle":    showtime.MovieTitle,
		"theater":       showtime.Theater,
		"startsAt":      showtime.StartsAt.Format("Jan 2, 2006 15:04"),
		"seats":         reservation.Seats,
		"totalPrice":    reservation.TotalPrice.StringFixed(2),
	}

	c.background(ctx, "send receipt", func(ctx context.Context) error {
		return c.mailer.Send(email, ReceiptTemplate, data)
	})
}

func (c *Coordinator) background(ctx context.Context, name string, fn func(context.Context) error) {
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		defer func() {
			if p := recover(); p != nil {
				c.logger.Error("panic in background task", "task", name, "panic", p)
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			c.logger.ErrorContext(ctx, "background task failed", "task", name, "error", err)
		}
	}()
}

// Wait blocks until every queued event and receipt has been handled.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

package booking

import (
	"github.com/metinatakli/showtime-booking/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type metrics struct {
	transitions   metric.Int64Counter
	conflicts     metric.Int64Counter
	confirmations metric.Int64Counter
	cancellations metric.Int64Counter
	expiredHolds  metric.Int64Counter
	divergedSeats metric.Int64Counter
}

func newMetrics(meter metric.Meter) *metrics {
	m, err := buildMetrics(meter)
	if err != nil {
		// Instruments only fail on invalid names; fall back to no-op ones.
		m, _ = buildMetrics(noop.NewMeterProvider().Meter(scopeName))
	}

	return m
}

func buildMetrics(meter metric.Meter) (*metrics, error) {
	var (
		m   metrics
		err error
	)

	m.transitions, err = meter.Int64Counter("booking.state_transitions",
		metric.WithDescription("Booking attempts entering a checkout state"))
	if err != nil {
		return nil, err
	}

	m.conflicts, err = meter.Int64Counter("booking.seat_conflicts",
		metric.WithDescription("Hold attempts rejected because a seat was taken"))
	if err != nil {
		return nil, err
	}

	m.confirmations, err = meter.Int64Counter("booking.confirmations",
		metric.WithDescription("Confirmation attempts by outcome"))
	if err != nil {
		return nil, err
	}

	m.cancellations, err = meter.Int64Counter("booking.cancellations",
		metric.WithDescription("Cancelled reservations"))
	if err != nil {
		return nil, err
	}

	m.expiredHolds, err = meter.Int64Counter("booking.expired_holds",
		metric.WithDescription("Holds released by the sweeper after their time limit"))
	if err != nil {
		return nil, err
	}

	m.divergedSeats, err = meter.Int64Counter("booking.diverged_seats",
		metric.WithDescription("Confirmed seats the seat map no longer reports as booked"))
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func stateAttr(state domain.BookingState) metric.AddOption {
	return metric.WithAttributes(attribute.String("state", string(state)))
}

func outcomeAttr(outcome string) metric.AddOption {
	return metric.WithAttributes(attribute.String("outcome", outcome))
}

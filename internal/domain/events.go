package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

type BookingEvent struct {
	Type          string          `json:"type"`
	ReservationID string          `json:"reservation_id"`
	UserID        int64           `json:"user_id"`
	ShowtimeID    int64           `json:"showtime_id"`
	MovieTitle    string          `json:"movie_title"`
	Theater       string          `json:"theater"`
	StartsAt      time.Time       `json:"starts_at"`
	Seats         []string        `json:"seats"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

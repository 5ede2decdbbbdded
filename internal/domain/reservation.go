package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

const reservationIDPrefix = "RES-"

type Reservation struct {
	ID          string
	UserID      int64
	ShowtimeID  int64
	Seats       []string
	TotalPrice  decimal.Decimal
	Status      ReservationStatus
	PaymentRef  string
	CreatedAt   time.Time
	CancelledAt *time.Time
}

// NewReservationID returns a RES- prefixed id backed by a time ordered UUID,
// so ids never depend on a short random suffix.
func NewReservationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return reservationIDPrefix + strings.ToUpper(id.String())
}

type ReservationRepository interface {
	Append(ctx context.Context, reservation *Reservation) error
	Find(ctx context.Context, id string) (*Reservation, error)
	ListByUser(ctx context.Context, userID int64, pagination Pagination) ([]Reservation, *Metadata, error)
	// ListAll pages through every reservation, newest first.
	ListAll(ctx context.Context, pagination Pagination) ([]Reservation, *Metadata, error)
	HasConfirmed(ctx context.Context, showtimeID int64) (bool, error)
	MarkCancelled(ctx context.Context, id string) error
	ConfirmedSeats(ctx context.Context) (map[int64][]string, error)
}

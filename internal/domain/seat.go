package domain

import (
	"context"
	"time"
)

type SeatState string

const (
	SeatAvailable SeatState = "AVAILABLE"
	SeatHeld      SeatState = "HELD"
	SeatBooked    SeatState = "BOOKED"
)

// SeatStates maps every seat label of a showtime to its current state.
type SeatStates map[string]SeatState

// Labels returns the labels currently in the given state.
func (s SeatStates) Labels(state SeatState) []string {
	var labels []string

	for label, st := range s {
		if st == state {
			labels = append(labels, label)
		}
	}

	return labels
}

// Hold is a time limited claim on a set of seats made during checkout.
type Hold struct {
	ID         string
	ShowtimeID int64
	UserID     int64
	Seats      []string
	Email      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

func (h *Hold) Expired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

// SeatMapStore is the authoritative record of held and booked seats.
// Seats it does not know about are AVAILABLE.
type SeatMapStore interface {
	SeatStates(ctx context.Context, showtimeID int64, layout SeatLayout) (SeatStates, error)
	TryHold(ctx context.Context, hold *Hold) error
	Hold(ctx context.Context, holdID string) (*Hold, error)
	Commit(ctx context.Context, showtimeID int64, holdID string) ([]string, error)
	ReleaseHold(ctx context.Context, showtimeID int64, holdID string) error
	ReleaseSeats(ctx context.Context, showtimeID int64, labels []string) error
	Book(ctx context.Context, showtimeID int64, labels []string) error
	Sweep(ctx context.Context) (int, error)
	DropShowtime(ctx context.Context, showtimeID int64) error
}

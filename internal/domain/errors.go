package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrHoldExpired      = errors.New("your selections have expired, please select your seats again")
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")
	ErrDuplicateID      = errors.New("reservation id already exists")
	ErrUnknownMovie     = errors.New("movie does not exist")
	ErrMovieInUse       = errors.New("movie still has scheduled showtimes")
	ErrShowtimeInUse    = errors.New("showtime has confirmed reservations or seats on hold")
)

// SeatConflictError lists the requested seats that are not available.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat(s) are not available: %s", strings.Join(e.Seats, ", "))
}

// InvalidSeatsError is returned when a seat selection does not fit the showtime layout.
type InvalidSeatsError struct {
	Reason string
	Seats  []string
}

func (e *InvalidSeatsError) Error() string {
	if len(e.Seats) == 0 {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Seats, ", "))
}

// PaymentError wraps a declined or failed charge.
type PaymentError struct {
	Reason string
	Err    error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

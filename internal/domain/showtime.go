package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxRows    = 26
	MaxColumns = 99
)

// Showtime is a screening of a catalog movie. MovieTitle is read from the
// catalog and ignored on create.
type Showtime struct {
	ID         int64
	MovieID    int64
	MovieTitle string
	Theater    string
	StartsAt   time.Time
	Rows       int
	Columns    int
	Price      decimal.Decimal
	CreatedAt  time.Time
}

func (s *Showtime) Layout() SeatLayout {
	return SeatLayout{Rows: s.Rows, Columns: s.Columns}
}

// TotalPrice is the price of buying n seats for the showtime.
func (s *Showtime) TotalPrice(n int) decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(n)))
}

// ShowtimeUpdate carries the fields that may be corrected after creation.
// The seat layout is deliberately absent.
type ShowtimeUpdate struct {
	Theater  *string
	StartsAt *time.Time
	Price    *decimal.Decimal
}

func (u ShowtimeUpdate) Apply(s *Showtime) {
	if u.Theater != nil {
		s.Theater = *u.Theater
	}
	if u.StartsAt != nil {
		s.StartsAt = *u.StartsAt
	}
	if u.Price != nil {
		s.Price = *u.Price
	}
}

// SeatLayout is the rectangular seat grid of a showtime. Rows are lettered
// from A, columns are numbered from 1.
type SeatLayout struct {
	Rows    int
	Columns int
}

func (l SeatLayout) Total() int {
	return l.Rows * l.Columns
}

// Labels returns every seat label in row-major order (A1, A2, ..., B1, ...).
func (l SeatLayout) Labels() []string {
	labels := make([]string, 0, l.Total())

	for r := 0; r < l.Rows; r++ {
		for c := 1; c <= l.Columns; c++ {
			labels = append(labels, SeatLabel(r, c))
		}
	}

	return labels
}

func (l SeatLayout) Contains(label string) bool {
	row, col, err := ParseSeatLabel(label)
	if err != nil {
		return false
	}

	return row < l.Rows && col >= 1 && col <= l.Columns
}

// Validate normalises a seat selection and checks it against the layout.
// The returned slice keeps the requested order.
func (l SeatLayout) Validate(labels []string) ([]string, error) {
	if len(labels) == 0 {
		return nil, &InvalidSeatsError{Reason: "at least one seat must be selected"}
	}

	normalized := make([]string, len(labels))
	seen := make(map[string]bool, len(labels))

	var duplicates, outside []string

	for i, label := range labels {
		label = NormalizeSeatLabel(label)

		row, col, err := ParseSeatLabel(label)
		if err == nil {
			label = SeatLabel(row, col)
		}
		normalized[i] = label

		if seen[label] {
			duplicates = append(duplicates, label)
			continue
		}
		seen[label] = true

		if err != nil || row >= l.Rows || col > l.Columns {
			outside = append(outside, label)
		}
	}

	if len(duplicates) > 0 {
		return nil, &InvalidSeatsError{Reason: "seats must be distinct", Seats: duplicates}
	}

	if len(outside) > 0 {
		return nil, &InvalidSeatsError{Reason: "seats do not exist for this showtime", Seats: outside}
	}

	return normalized, nil
}

func NormalizeSeatLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// SeatLabel builds a label from a zero based row index and a one based column.
func SeatLabel(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+row, col)
}

// ParseSeatLabel splits a label such as "C4" into a zero based row index and
// a one based column number.
func ParseSeatLabel(label string) (int, int, error) {
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("invalid seat label %q", label)
	}

	letter := label[0]
	if letter < 'A' || letter > 'Z' {
		return 0, 0, fmt.Errorf("invalid seat row in %q", label)
	}

	// Only plain ASCII digits, so every seat has exactly one label.
	digits := label[1:]
	if digits[0] == '0' || len(digits) > 2 || strings.IndexFunc(digits, isNotASCIIDigit) >= 0 {
		return 0, 0, fmt.Errorf("invalid seat column in %q", label)
	}

	col, err := strconv.Atoi(digits)
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("invalid seat column in %q", label)
	}

	return int(letter - 'A'), col, nil
}

func isNotASCIIDigit(r rune) bool {
	return r < '0' || r > '9'
}

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *Showtime) error
	GetById(ctx context.Context, id int64) (*Showtime, error)
	GetAll(ctx context.Context, pagination Pagination) ([]Showtime, *Metadata, error)
	Update(ctx context.Context, id int64, update ShowtimeUpdate) (*Showtime, error)
	Delete(ctx context.Context, id int64) error
}

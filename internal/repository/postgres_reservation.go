package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

const confirmedSeatIndex = "reservation_seats_confirmed_seat_idx"

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

func (p *PostgresReservationRepository) Append(ctx context.Context, reservation *domain.Reservation) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO reservations (id, user_id, showtime_id, total_price, status, payment_ref)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			reservation.ID,
			reservation.UserID,
			reservation.ShowtimeID,
			reservation.TotalPrice,
			reservation.Status,
			reservation.PaymentRef).Scan(&reservation.CreatedAt)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(reservation.Seats))
		for i, label := range reservation.Seats {
			rows = append(rows, []any{
				reservation.ID,
				reservation.ShowtimeID,
				label,
				i,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"reservation_seats"},
			[]string{"reservation_id", "showtime_id", "seat_label", "position"},
			pgx.CopyFromRows(rows),
		)

		return err
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if pgErr.ConstraintName == confirmedSeatIndex {
			return &domain.SeatConflictError{Seats: reservation.Seats}
		}

		return domain.ErrDuplicateID
	}

	return err
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

func (p *PostgresReservationRepository) Find(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `
		SELECT
			r.id,
			r.user_id,
			r.showtime_id,
			r.total_price,
			r.status,
			r.payment_ref,
			r.created_at,
			r.cancelled_at,
			ARRAY(
				SELECT rs.seat_label
				FROM reservation_seats rs
				WHERE rs.reservation_id = r.id
				ORDER BY rs.position
			)
		FROM reservations r
		WHERE r.id = $1
	`

	reservation, err := scanReservation(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return reservation, nil
}

func (p *PostgresReservationRepository) ListByUser(
	ctx context.Context,
	userID int64,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return p.list(ctx, "WHERE r.user_id = $3", pagination, userID)
}

func (p *PostgresReservationRepository) ListAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return p.list(ctx, "", pagination)
}

// list pages through reservations newest first. filter may refer to args
// starting at $3.
func (p *PostgresReservationRepository) list(
	ctx context.Context,
	filter string,
	pagination domain.Pagination,
	args ...any) ([]domain.Reservation, *domain.Metadata, error) {

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) OVER(),
			r.id,
			r.user_id,
			r.showtime_id,
			r.total_price,
			r.status,
			r.payment_ref,
			r.created_at,
			r.cancelled_at,
			ARRAY(
				SELECT rs.seat_label
				FROM reservation_seats rs
				WHERE rs.reservation_id = r.id
				ORDER BY rs.position
			)
		FROM reservations r
		%s
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $1 OFFSET $2
	`, filter)

	args = append([]any{pagination.Limit(), pagination.Offset()}, args...)

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	totalRecords := 0

	for rows.Next() {
		var reservation domain.Reservation

		err := rows.Scan(
			&totalRecords,
			&reservation.ID,
			&reservation.UserID,
			&reservation.ShowtimeID,
			&reservation.TotalPrice,
			&reservation.Status,
			&reservation.PaymentRef,
			&reservation.CreatedAt,
			&reservation.CancelledAt,
			&reservation.Seats,
		)
		if err != nil {
			return nil, nil, err
		}

		reservations = append(reservations, reservation)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return reservations, metadata, nil
}

func (p *PostgresReservationRepository) HasConfirmed(ctx context.Context, showtimeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reservations WHERE showtime_id = $1 AND status = 'confirmed')`

	var exists bool

	err := p.db.QueryRow(ctx, query, showtimeID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresReservationRepository) MarkCancelled(ctx context.Context, id string) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE reservations
			SET status = 'cancelled', cancelled_at = NOW()
			WHERE id = $1 AND status = 'confirmed'
		`

		tag, err := tx.Exec(ctx, query, id)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			var exists bool

			err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reservations WHERE id = $1)`, id).Scan(&exists)
			if err != nil {
				return err
			}

			if !exists {
				return domain.ErrRecordNotFound
			}

			return domain.ErrAlreadyCancelled
		}

		_, err = tx.Exec(ctx, `UPDATE reservation_seats SET confirmed = FALSE WHERE reservation_id = $1`, id)

		return err
	})
}

func (p *PostgresReservationRepository) ConfirmedSeats(ctx context.Context) (map[int64][]string, error) {
	query := `
		SELECT showtime_id, seat_label
		FROM reservation_seats
		WHERE confirmed
		ORDER BY showtime_id, reservation_id, position
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make(map[int64][]string)

	for rows.Next() {
		var (
			showtimeID int64
			label      string
		)

		if err := rows.Scan(&showtimeID, &label); err != nil {
			return nil, err
		}

		seats[showtimeID] = append(seats[showtimeID], label)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var reservation domain.Reservation

	err := row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.ShowtimeID,
		&reservation.TotalPrice,
		&reservation.Status,
		&reservation.PaymentRef,
		&reservation.CreatedAt,
		&reservation.CancelledAt,
		&reservation.Seats,
	)
	if err != nil {
		return nil, err
	}

	return &reservation, nil
}

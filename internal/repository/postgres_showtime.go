package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

// Create schedules a showtime for a listed movie. The movie row is share
// locked so a concurrent movie delete cannot slip in between.
func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	query := `
		WITH movie AS (
			SELECT id, title FROM movies WHERE id = $1 AND deleted_at IS NULL FOR SHARE
		)
		INSERT INTO showtimes (movie_id, theater, starts_at, seat_rows, seat_columns, price)
		SELECT movie.id, $2::text, $3::timestamptz, $4::integer, $5::integer, $6::numeric
		FROM movie
		RETURNING id, created_at, (SELECT title FROM movie)
	`

	err := p.db.QueryRow(ctx,
		query,
		showtime.MovieID,
		showtime.Theater,
		showtime.StartsAt,
		showtime.Rows,
		showtime.Columns,
		showtime.Price).Scan(&showtime.ID, &showtime.CreatedAt, &showtime.MovieTitle)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUnknownMovie
	}

	return err
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int64) (*domain.Showtime, error) {
	query := `
		SELECT s.id, s.movie_id, m.title, s.theater, s.starts_at, s.seat_rows, s.seat_columns, s.price, s.created_at
		FROM showtimes s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.id = $1 AND s.deleted_at IS NULL
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.MovieTitle,
		&showtime.Theater,
		&showtime.StartsAt,
		&showtime.Rows,
		&showtime.Columns,
		&showtime.Price,
		&showtime.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

func (p *PostgresShowtimeRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Showtime, *domain.Metadata, error) {

	query := `
		SELECT count(*) OVER(), s.id, s.movie_id, m.title, s.theater, s.starts_at, s.seat_rows, s.seat_columns, s.price, s.created_at
		FROM showtimes s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.deleted_at IS NULL
		ORDER BY s.starts_at, s.id
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	showtimes := []domain.Showtime{}

	for rows.Next() {
		var showtime domain.Showtime

		err := rows.Scan(
			&totalRecords,
			&showtime.ID,
			&showtime.MovieID,
			&showtime.MovieTitle,
			&showtime.Theater,
			&showtime.StartsAt,
			&showtime.Rows,
			&showtime.Columns,
			&showtime.Price,
			&showtime.CreatedAt,
		)

		if err != nil {
			return nil, nil, err
		}

		showtimes = append(showtimes, showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return showtimes, metadata, nil
}

func (p *PostgresShowtimeRepository) Update(
	ctx context.Context,
	id int64,
	update domain.ShowtimeUpdate) (*domain.Showtime, error) {

	query := `
		UPDATE showtimes s
		SET theater = COALESCE($2, s.theater),
			starts_at = COALESCE($3, s.starts_at),
			price = COALESCE($4, s.price)
		FROM movies m
		WHERE s.id = $1 AND s.deleted_at IS NULL AND m.id = s.movie_id
		RETURNING s.id, s.movie_id, m.title, s.theater, s.starts_at, s.seat_rows, s.seat_columns, s.price, s.created_at
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, id, update.Theater, update.StartsAt, update.Price).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.MovieTitle,
		&showtime.Theater,
		&showtime.StartsAt,
		&showtime.Rows,
		&showtime.Columns,
		&showtime.Price,
		&showtime.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

// Delete unlists the showtime. Its reservations keep pointing at the row.
func (p *PostgresShowtimeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, `UPDATE showtimes SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

var movieSortColumns = map[string]string{
	"id":           "id",
	"title":        "title",
	"release_date": "release_date",
}

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `INSERT INTO movies (title, description, genre, duration, poster_url, release_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return p.db.QueryRow(ctx,
		query,
		movie.Title,
		movie.Description,
		movie.Genre,
		movie.Duration,
		movie.PosterUrl,
		movie.ReleaseDate).Scan(&movie.ID, &movie.CreatedAt)
}

func (p *PostgresMovieRepository) GetAll(
	ctx context.Context,
	filters domain.MovieFilters) ([]domain.Movie, *domain.Metadata, error) {

	column, ok := movieSortColumns[filters.SortColumn()]
	if !ok {
		column = "id"
	}

	query := fmt.Sprintf(`SELECT count(*) OVER(), id, title, description, genre, duration, poster_url, release_date, created_at
		FROM movies
		WHERE deleted_at IS NULL
			AND ((to_tsvector('english', title) @@ plainto_tsquery('english', $1)
				OR to_tsvector('english', description) @@ plainto_tsquery('english', $1))
				OR $1 = '')
		ORDER BY %s %s, id
		LIMIT $2 OFFSET $3`, column, filters.SortDirection())

	rows, err := p.db.Query(ctx, query, filters.Term, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	movies := []domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Description,
			&movie.Genre,
			&movie.Duration,
			&movie.PosterUrl,
			&movie.ReleaseDate,
			&movie.CreatedAt,
		)

		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int64) (*domain.Movie, error) {
	query := `
		SELECT id, title, description, genre, duration, poster_url, release_date, created_at
		FROM movies
		WHERE id = $1 AND deleted_at IS NULL
	`

	return scanMovie(p.db.QueryRow(ctx, query, id))
}

func (p *PostgresMovieRepository) Update(
	ctx context.Context,
	id int64,
	update domain.MovieUpdate) (*domain.Movie, error) {

	query := `
		UPDATE movies
		SET title = COALESCE($2, title),
			description = COALESCE($3, description),
			genre = COALESCE($4, genre),
			duration = COALESCE($5, duration),
			poster_url = COALESCE($6, poster_url),
			release_date = COALESCE($7, release_date)
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, title, description, genre, duration, poster_url, release_date, created_at
	`

	return scanMovie(p.db.QueryRow(ctx,
		query,
		id,
		update.Title,
		update.Description,
		update.Genre,
		update.Duration,
		update.PosterUrl,
		update.ReleaseDate))
}

// Delete hides the movie from the catalog. Past showtimes and reservations
// keep referencing the row.
func (p *PostgresMovieRepository) Delete(ctx context.Context, id int64) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var locked int64

		err := tx.QueryRow(ctx,
			`SELECT id FROM movies WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		var inUse bool

		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM showtimes WHERE movie_id = $1 AND deleted_at IS NULL)`, id).Scan(&inUse)
		if err != nil {
			return err
		}

		if inUse {
			return domain.ErrMovieInUse
		}

		_, err = tx.Exec(ctx, `UPDATE movies SET deleted_at = NOW() WHERE id = $1`, id)

		return err
	})
}

func scanMovie(row pgx.Row) (*domain.Movie, error) {
	var movie domain.Movie

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genre,
		&movie.Duration,
		&movie.PosterUrl,
		&movie.ReleaseDate,
		&movie.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

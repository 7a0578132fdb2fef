package models

import (
	"cinevault/proj/internal/domain/filters"
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MovieModel struct {
	DB *pgxpool.Pool
}

func (m *MovieModel) Get(ctx context.Context, id string) (*models.Movie, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+movieColumns+` FROM movies WHERE movie_id = $1`, id)
	if err != nil {
		return nil, err
	}
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (m *MovieModel) ListByGenre(ctx context.Context, genre string, limit int) ([]models.Movie, error) {
	return m.collect(ctx, `SELECT `+movieColumns+` FROM movies WHERE genre = $1 LIMIT $2`, genre, limit)
}

func (m *MovieModel) List(ctx context.Context, f filters.Filters) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies` + orderBy(f)
	args := []any{}
	if f.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, f.Limit)
	}
	return m.collect(ctx, query, args...)
}

// ListReleasedBetween matches release dates in [from, to]. A zero to leaves the range open.
func (m *MovieModel) ListReleasedBetween(ctx context.Context, from, to time.Time, f filters.Filters) ([]models.Movie, error) {
	var toArg any
	if !to.IsZero() {
		toArg = to
	}
	query := `SELECT ` + movieColumns + ` FROM movies
	WHERE release_date >= $1 AND ($2::timestamptz IS NULL OR release_date <= $2)` + orderBy(f)
	args := []any{from, toArg}
	if f.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, f.Limit)
	}
	return m.collect(ctx, query, args...)
}

func (m *MovieModel) ListFree(ctx context.Context, limit int) ([]models.Movie, error) {
	return m.collect(ctx, `SELECT `+movieColumns+` FROM movies WHERE price = 0 LIMIT $1`, limit)
}

func (m *MovieModel) IncrementLikes(ctx context.Context, id string) (int64, error) {
	var likes int64
	err := m.DB.QueryRow(
		ctx,
		`UPDATE movies SET likes = COALESCE(likes, 0) + 1 WHERE movie_id = $1 RETURNING likes`,
		id,
	).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}
	return likes, nil
}

func (m *MovieModel) collect(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	rows, err := m.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	movies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func orderBy(f filters.Filters) string {
	if !f.HasSort() {
		return ""
	}
	return fmt.Sprintf(` ORDER BY %s %s NULLS LAST, movie_id ASC`, f.SortColumn(), f.SortDirection())
}

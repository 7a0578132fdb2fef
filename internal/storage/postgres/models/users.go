package models

import (
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/storage"
	"cinevault/proj/internal/storage/postgres"
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserModel struct {
	DB *pgxpool.Pool
}

func (m *UserModel) GetUser(ctx context.Context, email string) (*models.User, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) InsertUser(ctx context.Context, user *models.User) error {
	genres := user.Genres
	if genres == nil {
		genres = []string{}
	}
	_, err := m.DB.Exec(
		ctx,
		`INSERT INTO users (email, username, password, phone_number, genre, current_rented_movies, old_movies, wishlist, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.PhoneNumber,
		genres,
		rentalsOrEmpty(user.CurrentRentals),
		rentalsOrEmpty(user.OldRentals),
		wishlistOrEmpty(user.Wishlist),
		user.CreatedAt,
	)
	if err != nil {
		if postgres.IsConflict(err) {
			return storage.ErrConflict
		}
		return err
	}
	return nil
}

func (m *UserModel) AppendRental(ctx context.Context, email string, rental models.Rental) error {
	status, err := m.DB.Exec(
		ctx,
		`UPDATE users SET current_rented_movies = current_rented_movies || $2::jsonb, version = version + 1
		WHERE email = $1`,
		email,
		[]models.Rental{rental},
	)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *UserModel) UpdateRentals(ctx context.Context, email string, current, old []models.Rental, version int64) error {
	status, err := m.DB.Exec(
		ctx,
		`UPDATE users SET current_rented_movies = $2, old_movies = $3, version = version + 1
		WHERE email = $1 AND version = $4`,
		email,
		rentalsOrEmpty(current),
		rentalsOrEmpty(old),
		version,
	)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrEditConflict
	}
	return nil
}

func (m *UserModel) UpdateWishlist(ctx context.Context, email string, wishlist models.Wishlist, version int64) error {
	status, err := m.DB.Exec(
		ctx,
		`UPDATE users SET wishlist = $2, version = version + 1 WHERE email = $1 AND version = $3`,
		email,
		wishlistOrEmpty(wishlist),
		version,
	)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrEditConflict
	}
	return nil
}

func rentalsOrEmpty(r []models.Rental) []models.Rental {
	if r == nil {
		return []models.Rental{}
	}
	return r
}

func wishlistOrEmpty(w models.Wishlist) models.Wishlist {
	if w == nil {
		return models.Wishlist{}
	}
	return w
}

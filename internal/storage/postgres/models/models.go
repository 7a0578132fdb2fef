package models

import "cinevault/proj/internal/storage/postgres"

type Models struct {
	Movie   *MovieModel
	User    *UserModel
	Contact *ContactModel
}

func New(db *postgres.PostgresDB) *Models {
	return &Models{
		Movie:   &MovieModel{db.Conn},
		User:    &UserModel{db.Conn},
		Contact: &ContactModel{db.Conn},
	}
}

const movieColumns = `movie_id, title, genre, poster_url, movie_url, price, rating, likes, release_date, created_at`

const userColumns = `email, username, password, phone_number, genre, current_rented_movies, old_movies,
	wishlist, version, created_at`

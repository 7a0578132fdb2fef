package models

import (
	"cinevault/proj/internal/domain/fields"
	"time"
)

type Movie struct {
	ID          string       `json:"movie_id" dynamodbav:"movie_id" db:"movie_id"`        // Catalog primary key
	Title       string       `json:"title" dynamodbav:"title" db:"title"`                 // Movie title
	Genre       string       `json:"genre,omitempty" dynamodbav:"genre" db:"genre"`       // Single genre, indexed
	PosterURL   string       `json:"poster_url,omitempty" dynamodbav:"poster_url" db:"poster_url"`
	MediaKey    string       `json:"-" dynamodbav:"movie_url,omitempty" db:"movie_url"`   // Object key under the media prefix
	Price       fields.Price `json:"price" dynamodbav:"price" db:"price"`                 // 0 is the free tier
	Rating      float64      `json:"rating" dynamodbav:"rating" db:"rating"`
	Likes       int64        `json:"likes" dynamodbav:"likes" db:"likes"`
	ReleaseDate time.Time    `json:"release_date" dynamodbav:"release_date" db:"release_date"`
	CreatedAt   time.Time    `json:"created_at" dynamodbav:"created_at" db:"created_at"`
}

func (m *Movie) HasMedia() bool {
	return m.MediaKey != ""
}

type Rental struct {
	MovieID   string    `json:"movie_id" dynamodbav:"movie_id"`
	Title     string    `json:"title" dynamodbav:"title"`
	PosterURL string    `json:"poster_url" dynamodbav:"poster_url"`
	StartDate time.Time `json:"start_date" dynamodbav:"start_date"`
	EndDate   time.Time `json:"end_date" dynamodbav:"end_date"`
}

// ExpiredAt reports whether the rental window closed strictly before t.
func (r Rental) ExpiredAt(t time.Time) bool {
	return r.EndDate.Before(t)
}

// SplitRentals partitions rentals into those still active at now and those
// that expired. Order within each part is preserved.
func SplitRentals(rentals []Rental, now time.Time) (active, expired []Rental) {
	active = make([]Rental, 0, len(rentals))
	expired = make([]Rental, 0)
	for _, r := range rentals {
		if r.ExpiredAt(now) {
			expired = append(expired, r)
		} else {
			active = append(active, r)
		}
	}
	return active, expired
}

type WishlistItem struct {
	MovieID   string `json:"movie_id" dynamodbav:"movie_id"`
	PosterURL string `json:"poster_url" dynamodbav:"poster_url"`
	Title     string `json:"title" dynamodbav:"title"`
}

// Wishlist is ordered from least to most recently touched.
type Wishlist []WishlistItem

// Toggle moves an existing entry with the same movie id to the end, keeping
// the stored entry, or appends item when the id is new. The receiver is not modified.
func (w Wishlist) Toggle(item WishlistItem) Wishlist {
	updated := make(Wishlist, 0, len(w)+1)
	var existing *WishlistItem
	for i := range w {
		if w[i].MovieID == item.MovieID && existing == nil {
			existing = &w[i]
			continue
		}
		updated = append(updated, w[i])
	}
	if existing != nil {
		return append(updated, *existing)
	}
	return append(updated, item)
}

type User struct {
	Email          string    `json:"email" dynamodbav:"email" db:"email"`
	Username       string    `json:"username" dynamodbav:"username" db:"username"`
	PasswordHash   string    `json:"-" dynamodbav:"password" db:"password"`
	PhoneNumber    string    `json:"phone_number" dynamodbav:"phone_number" db:"phone_number"`
	Genres         []string  `json:"genre" dynamodbav:"genre" db:"genre"`
	CurrentRentals []Rental  `json:"current_rented_movies" dynamodbav:"current_rented_movies" db:"current_rented_movies"`
	OldRentals     []Rental  `json:"-" dynamodbav:"old_movies" db:"old_movies"`
	Wishlist       Wishlist  `json:"wishlist" dynamodbav:"wishlist" db:"wishlist"`
	Version        int64     `json:"-" dynamodbav:"version" db:"version"` // Bumped on every rental or wishlist write
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at" db:"created_at"`
}

// HasActiveRental reports whether the user holds a rental of movieID that has not expired at now.
func (u *User) HasActiveRental(movieID string, now time.Time) bool {
	for _, r := range u.CurrentRentals {
		if r.MovieID == movieID && !r.ExpiredAt(now) {
			return true
		}
	}
	return false
}

type ContactSubmission struct {
	ID          string    `json:"submission_id" dynamodbav:"SubmissionID" db:"submission_id"`
	Name        string    `json:"name" dynamodbav:"Name" db:"name"`
	Email       string    `json:"email" dynamodbav:"Email" db:"email"`
	Subject     string    `json:"subject" dynamodbav:"Subject" db:"subject"`
	Message     string    `json:"message" dynamodbav:"Message" db:"message"`
	SubmittedAt time.Time `json:"submitted_at" dynamodbav:"SubmittedAt" db:"submitted_at"`
}

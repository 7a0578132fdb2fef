package movies

import "errors"

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrInvalidYear   = errors.New("year must be a 4-digit number")
)

package storage

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrEditConflict is returned when a versioned write lost a race.
	ErrEditConflict = errors.New("edit conflict")
)

package accounts

import "errors"

var (
	ErrUserNotFound       = errors.New("User not found")
	ErrUserAlreadyExists  = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrEditConflict       = errors.New("edit conflict, please retry")
)

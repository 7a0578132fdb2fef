package payments

import "errors"

var (
	ErrMovieNotFound           = errors.New("movie not found")
	ErrFreeMovie               = errors.New("movie is free, no payment required")
	ErrVerificationFailed      = errors.New("Payment verification failed.")
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
)

// Package payments opens gateway orders for paid movies and turns verified
// payments into rentals.
package payments

import (
	"cinevault/proj/internal/clients/razorpay"
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/storage"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Gateway receipts are capped at 40 characters.
const maxReceiptLen = 40

// Order notes binding a gateway order to the movie and buyer it was opened for.
const (
	noteMovieID = "movie_id"
	noteEmail   = "email"
)

type MoviesReader interface {
	Get(ctx context.Context, id string) (*models.Movie, error)
}

type RentalsStorage interface {
	AppendRental(ctx context.Context, email string, rental models.Rental) error
}

type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, receipt string, notes map[string]string) (*razorpay.Order, error)
	FetchOrder(ctx context.Context, orderID string) (*razorpay.Order, error)
	KeyID() string
}

type Presigner interface {
	PresignMedia(ctx context.Context, key string) (string, error)
}

type ReplayGuard interface {
	Claim(ctx context.Context, paymentID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, paymentID string) error
}

type PaymentService struct {
	log          *slog.Logger
	movies       MoviesReader
	rentals      RentalsStorage
	gateway      Gateway
	presigner    Presigner
	guard        ReplayGuard
	secret       string
	rentalPeriod time.Duration
	claimTTL     time.Duration
	now          func() time.Time
}

func New(
	log *slog.Logger,
	movies MoviesReader,
	rentals RentalsStorage,
	gateway Gateway,
	presigner Presigner,
	guard ReplayGuard,
	secret string,
	rentalPeriod time.Duration,
	claimTTL time.Duration,
) *PaymentService {
	return &PaymentService{
		log:          log,
		movies:       movies,
		rentals:      rentals,
		gateway:      gateway,
		presigner:    presigner,
		guard:        guard,
		secret:       secret,
		rentalPeriod: rentalPeriod,
		claimTTL:     claimTTL,
		now:          time.Now,
	}
}

type OrderDTO struct {
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
	Key     string `json:"key"`
}

type VerifyParams struct {
	OrderID   string
	PaymentID string
	Signature string
	MovieID   string
}

func (s *PaymentService) CreateOrder(ctx context.Context, movieID, email string) (*OrderDTO, error) {
	const op = "payments.PaymentService.CreateOrder"
	log := s.log.With("op", op, "movie_id", movieID, "email", email)
	movie, err := s.getMovie(ctx, log, movieID)
	if err != nil {
		return nil, err
	}
	if movie.Price.IsFree() {
		log.Info("order requested for free movie")
		return nil, ErrFreeMovie
	}
	notes := map[string]string{noteMovieID: movie.ID, noteEmail: email}
	order, err := s.gateway.CreateOrder(ctx, movie.Price.MinorUnits(), Receipt(movieID, email), notes)
	if err != nil {
		log.Error("Error creating gateway order", "errMsg", err.Error())
		return nil, err
	}
	log.Info("order created", "order_id", order.ID, "amount", order.Amount)
	return &OrderDTO{OrderID: order.ID, Amount: order.Amount, Key: s.gateway.KeyID()}, nil
}

// Verify checks the gateway signature and that the order was opened by email for
// params.MovieID. When both hold it grants one rental of the movie and returns a
// media link for it (empty if the movie has no media).
func (s *PaymentService) Verify(ctx context.Context, params VerifyParams, email string) (string, error) {
	const op = "payments.PaymentService.Verify"
	log := s.log.With("op", op, "order_id", params.OrderID, "payment_id", params.PaymentID, "email", email)
	expected := Signature(params.OrderID, params.PaymentID, s.secret)
	if !hmac.Equal([]byte(expected), []byte(params.Signature)) {
		log.Warn("payment signature mismatch")
		return "", ErrVerificationFailed
	}
	order, err := s.gateway.FetchOrder(ctx, params.OrderID)
	if err != nil {
		log.Error("Error fetching gateway order", "errMsg", err.Error())
		return "", err
	}
	if order.Notes[noteMovieID] != params.MovieID || order.Notes[noteEmail] != email {
		log.Warn("order does not match claimed movie or buyer",
			"order_movie_id", order.Notes[noteMovieID], "movie_id", params.MovieID)
		return "", ErrVerificationFailed
	}
	movie, err := s.getMovie(ctx, log, params.MovieID)
	if err != nil {
		return "", err
	}
	claimed, err := s.guard.Claim(ctx, params.PaymentID, s.claimTTL)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	if !claimed {
		log.Warn("payment replayed")
		return "", ErrPaymentAlreadyProcessed
	}
	start := s.now().UTC()
	rental := models.Rental{
		MovieID:   movie.ID,
		Title:     movie.Title,
		PosterURL: movie.PosterURL,
		StartDate: start,
		EndDate:   start.Add(s.rentalPeriod),
	}
	if err := s.rentals.AppendRental(ctx, email, rental); err != nil {
		log.Error("Error appending rental", "errMsg", err.Error())
		if relErr := s.guard.Release(ctx, params.PaymentID); relErr != nil {
			log.Error("Error releasing payment claim", "errMsg", relErr.Error())
		}
		return "", err
	}
	log.Info("rental granted", "movie_id", movie.ID, "end_date", rental.EndDate)
	if !movie.HasMedia() {
		return "", nil
	}
	url, err := s.presigner.PresignMedia(ctx, movie.MediaKey)
	if err != nil {
		log.Error("failed to presign media", "errMsg", err.Error())
		return "", err
	}
	return url, nil
}

func (s *PaymentService) getMovie(ctx context.Context, log *slog.Logger, id string) (*models.Movie, error) {
	movie, err := s.movies.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

// Signature is the hex HMAC-SHA256 of "orderID|paymentID" the gateway sends back on success.
func Signature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func Receipt(movieID, email string) string {
	receipt := fmt.Sprintf("receipt_%s_%s", movieID, email)
	if len(receipt) > maxReceiptLen {
		receipt = receipt[:maxReceiptLen]
	}
	return receipt
}

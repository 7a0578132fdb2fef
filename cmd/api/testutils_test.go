package main

import (
	"cinevault/proj/internal/api/tasks"
	"cinevault/proj/internal/clients/razorpay"
	"cinevault/proj/internal/config"
	"cinevault/proj/internal/domain/filters"
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/services"
	"cinevault/proj/internal/services/accounts"
	"cinevault/proj/internal/services/auth"
	"cinevault/proj/internal/services/contact"
	"cinevault/proj/internal/services/movies"
	"cinevault/proj/internal/services/payments"
	"cinevault/proj/internal/storage"
	"cinevault/proj/internal/storage/replay"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret     = "test-secret"
	testGatewaySecret = "rzp_test_secret"
)

// memStore keeps movies, users and contact submissions in memory.
type memStore struct {
	mu       sync.Mutex
	movies   map[string]*models.Movie
	users    map[string]*models.User
	contacts []*models.ContactSubmission
}

func newMemStore() *memStore {
	return &memStore{movies: map[string]*models.Movie{}, users: map[string]*models.User{}}
}

func (s *memStore) Get(_ context.Context, id string) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *memStore) all(match func(*models.Movie) bool, limit int) []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	movies := []models.Movie{}
	for _, m := range s.movies {
		if match(m) {
			movies = append(movies, *m)
		}
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].ID < movies[j].ID })
	if limit > 0 && len(movies) > limit {
		movies = movies[:limit]
	}
	return movies
}

func (s *memStore) ListByGenre(_ context.Context, genre string, limit int) ([]models.Movie, error) {
	return s.all(func(m *models.Movie) bool { return m.Genre == genre }, limit), nil
}

func (s *memStore) List(_ context.Context, f filters.Filters) ([]models.Movie, error) {
	return s.all(func(*models.Movie) bool { return true }, f.Limit), nil
}

func (s *memStore) ListReleasedBetween(_ context.Context, from, to time.Time, f filters.Filters) ([]models.Movie, error) {
	return s.all(func(m *models.Movie) bool {
		return !m.ReleaseDate.Before(from) && (to.IsZero() || !m.ReleaseDate.After(to))
	}, f.Limit), nil
}

func (s *memStore) ListFree(_ context.Context, limit int) ([]models.Movie, error) {
	return s.all(func(m *models.Movie) bool { return m.Price.IsFree() }, limit), nil
}

func (s *memStore) IncrementLikes(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return 0, storage.ErrNotFound
	}
	m.Likes++
	return m.Likes, nil
}

func (s *memStore) GetUser(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memStore) InsertUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return storage.ErrConflict
	}
	copied := *user
	s.users[user.Email] = &copied
	return nil
}

func (s *memStore) AppendRental(_ context.Context, email string, rental models.Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return storage.ErrNotFound
	}
	u.CurrentRentals = append(append([]models.Rental{}, u.CurrentRentals...), rental)
	u.Version++
	return nil
}

func (s *memStore) UpdateRentals(_ context.Context, email string, current, old []models.Rental, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok || u.Version != version {
		return storage.ErrEditConflict
	}
	u.CurrentRentals, u.OldRentals = current, old
	u.Version++
	return nil
}

func (s *memStore) UpdateWishlist(_ context.Context, email string, wishlist models.Wishlist, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok || u.Version != version {
		return storage.ErrEditConflict
	}
	u.Wishlist = wishlist
	u.Version++
	return nil
}

func (s *memStore) InsertContact(_ context.Context, submission *models.ContactSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, submission)
	return nil
}

// fakeGateway opens every order as "order_test" and keeps it for FetchOrder.
type fakeGateway struct {
	mu     sync.Mutex
	orders map[string]*razorpay.Order
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, receipt string, notes map[string]string) (*razorpay.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	order := &razorpay.Order{ID: "order_test", Amount: amount, Currency: "INR", Receipt: receipt, Notes: notes}
	g.orders[order.ID] = order
	return order, nil
}

func (g *fakeGateway) FetchOrder(_ context.Context, orderID string) (*razorpay.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	order, ok := g.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	return order, nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

type fakePresigner struct{}

func (fakePresigner) PresignMedia(_ context.Context, key string) (string, error) {
	return "https://media.example/MovieVideo/" + key + "?X-Amz-Expires=600", nil
}

func testConfig() *config.Config {
	return &config.Config{
		Version: "test",
		Auth:    config.Auth{JWTSecret: testJWTSecret, TokenTTL: 3 * time.Hour},
		CORS:    config.CORS{AllowedOrigin: "http://localhost:3000"},
		Limiter: config.Limiter{Enabled: false, Rps: 1, Burst: 1},
		Rental:  config.Rental{Duration: 72 * time.Hour},
	}
}

func NewTestApplication(t *testing.T, cfg *config.Config) (*Application, *memStore) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := newMemStore()
	tokens := auth.NewTokenManager(log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	svcs := &services.Services{
		Tokens:   tokens,
		Movies:   movies.New(log, st, st, fakePresigner{}),
		Accounts: accounts.New(log, st, tokens, nil, nil, cfg.Rental.Duration),
		Payments: payments.New(
			log, st, st, &fakeGateway{orders: map[string]*razorpay.Order{}}, fakePresigner{}, replay.NopGuard{},
			testGatewaySecret, cfg.Rental.Duration, cfg.Redis.ClaimTTL,
		),
		Contact: contact.New(log, st, nil, nil, ""),
	}
	return NewApplication(cfg, log, svcs, tasks.New(log, 1, 1)), st
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func sessionCookie(t *testing.T, app *Application, email, username string) *http.Cookie {
	t.Helper()
	token, _, err := app.tokens.Issue(email, username)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

package payments

import (
	"cinevault/proj/internal/clients/razorpay"
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/storage"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "rzp_secret"

type fakeMovies map[string]*models.Movie

func (f fakeMovies) Get(_ context.Context, id string) (*models.Movie, error) {
	if m, ok := f[id]; ok {
		return m, nil
	}
	return nil, storage.ErrNotFound
}

type fakeRentals struct {
	appended map[string][]models.Rental
	err      error
}

func (f *fakeRentals) AppendRental(_ context.Context, email string, rental models.Rental) error {
	if f.err != nil {
		return f.err
	}
	f.appended[email] = append(f.appended[email], rental)
	return nil
}

type fakeGateway struct {
	amount  int64
	receipt string
	orders  map[string]*razorpay.Order
	err     error
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, receipt string, notes map[string]string) (*razorpay.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.amount, g.receipt = amount, receipt
	order := &razorpay.Order{ID: "order_1", Amount: amount, Currency: "INR", Receipt: receipt, Notes: notes}
	g.orders[order.ID] = order
	return order, nil
}

func (g *fakeGateway) FetchOrder(_ context.Context, orderID string) (*razorpay.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	order, ok := g.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	return order, nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

type fakePresigner struct{}

func (fakePresigner) PresignMedia(_ context.Context, key string) (string, error) {
	return "https://media.example/" + key, nil
}

// memGuard expires claims like Redis does; a zero expiry never passes.
type memGuard struct {
	now      func() time.Time
	claimed  map[string]time.Time
	released []string
}

func (g *memGuard) Claim(_ context.Context, paymentID string, ttl time.Duration) (bool, error) {
	if expiresAt, ok := g.claimed[paymentID]; ok && (expiresAt.IsZero() || g.now().Before(expiresAt)) {
		return false, nil
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = g.now().Add(ttl)
	}
	g.claimed[paymentID] = expiresAt
	return true, nil
}

func (g *memGuard) Release(_ context.Context, paymentID string) error {
	delete(g.claimed, paymentID)
	g.released = append(g.released, paymentID)
	return nil
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	svc     *PaymentService
	rentals *fakeRentals
	gateway *fakeGateway
	guard   *memGuard
	now     time.Time
}

func paidOrder(id, movieID, email string) *razorpay.Order {
	return &razorpay.Order{ID: id, Notes: map[string]string{noteMovieID: movieID, noteEmail: email}}
}

func newTestEnv() *testEnv {
	movies := fakeMovies{
		"heat":  {ID: "heat", Title: "Heat", PosterURL: "heat.jpg", MediaKey: "heat.mp4", Price: 49.99},
		"free":  {ID: "free", Title: "Nosferatu"},
		"nomed": {ID: "nomed", Title: "Lost", Price: 10},
	}
	env := &testEnv{
		rentals: &fakeRentals{appended: map[string][]models.Rental{}},
		gateway: &fakeGateway{orders: map[string]*razorpay.Order{
			"order_1": paidOrder("order_1", "heat", "neo@matrix.io"),
			"order_2": paidOrder("order_2", "nomed", "neo@matrix.io"),
		}},
		now: testNow,
	}
	env.guard = &memGuard{now: env.clock, claimed: map[string]time.Time{}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.svc = New(log, movies, env.rentals, env.gateway, fakePresigner{}, env.guard, testSecret, 72*time.Hour, 0)
	env.svc.now = env.clock
	return env
}

func (e *testEnv) clock() time.Time { return e.now }

func TestCreateOrder(t *testing.T) {
	env := newTestEnv()
	order, err := env.svc.CreateOrder(context.Background(), "heat", "neo@matrix.io")
	require.NoError(t, err)
	assert.Equal(t, &OrderDTO{OrderID: "order_1", Amount: 4999, Key: "rzp_test_key"}, order)
	assert.Equal(t, int64(4999), env.gateway.amount)
	assert.Equal(t, "receipt_heat_neo@matrix.io", env.gateway.receipt)
	assert.Equal(t,
		map[string]string{noteMovieID: "heat", noteEmail: "neo@matrix.io"},
		env.gateway.orders["order_1"].Notes,
	)

	_, err = env.svc.CreateOrder(context.Background(), "missing", "neo@matrix.io")
	assert.ErrorIs(t, err, ErrMovieNotFound)
	_, err = env.svc.CreateOrder(context.Background(), "free", "neo@matrix.io")
	assert.ErrorIs(t, err, ErrFreeMovie)

	env.gateway.err = errors.New("gateway down")
	_, err = env.svc.CreateOrder(context.Background(), "heat", "neo@matrix.io")
	assert.Error(t, err)
}

func TestReceiptIsTruncated(t *testing.T) {
	receipt := Receipt("movie-1234567890", "a.very.long.address@example.com")
	assert.Len(t, receipt, maxReceiptLen)
	assert.Equal(t, "receipt_heat_a@b.io", Receipt("heat", "a@b.io"))
}

func TestSignature(t *testing.T) {
	assert.Equal(t,
		"52115a0d3400de9e86aade1f1b6eba9e8974604f4e267a9e9a16633a4c8dd2cb",
		Signature("order_1", "pay_1", "secret"),
	)
	assert.NotEqual(t, Signature("order_1", "pay_1", "secret"), Signature("order_1", "pay_2", "secret"))
}

func TestVerify(t *testing.T) {
	env := newTestEnv()
	params := VerifyParams{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: Signature("order_1", "pay_1", testSecret),
		MovieID:   "heat",
	}
	url, err := env.svc.Verify(context.Background(), params, "neo@matrix.io")
	require.NoError(t, err)
	assert.Equal(t, "https://media.example/heat.mp4", url)

	rentals := env.rentals.appended["neo@matrix.io"]
	require.Len(t, rentals, 1)
	assert.Equal(t, "Heat", rentals[0].Title)
	assert.Equal(t, testNow, rentals[0].StartDate)
	assert.Equal(t, rentals[0].StartDate.Add(72*time.Hour), rentals[0].EndDate)
	assert.Contains(t, env.guard.claimed, "pay_1")

	_, err = env.svc.Verify(context.Background(), params, "neo@matrix.io")
	assert.ErrorIs(t, err, ErrPaymentAlreadyProcessed)
	assert.Len(t, env.rentals.appended["neo@matrix.io"], 1)
}

func TestVerifyRejectsReplayAfterRentalExpires(t *testing.T) {
	env := newTestEnv()
	params := VerifyParams{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: Signature("order_1", "pay_1", testSecret),
		MovieID:   "heat",
	}
	_, err := env.svc.Verify(context.Background(), params, "neo@matrix.io")
	require.NoError(t, err)

	env.now = testNow.Add(72*time.Hour + time.Second)
	_, err = env.svc.Verify(context.Background(), params, "neo@matrix.io")
	assert.ErrorIs(t, err, ErrPaymentAlreadyProcessed)
	assert.Len(t, env.rentals.appended["neo@matrix.io"], 1)
}

func TestVerifyRejectsOrderForOtherMovieOrBuyer(t *testing.T) {
	env := newTestEnv()
	env.gateway.orders["order_cheap"] = paidOrder("order_cheap", "nomed", "neo@matrix.io")
	params := VerifyParams{
		OrderID:   "order_cheap",
		PaymentID: "pay_9",
		Signature: Signature("order_cheap", "pay_9", testSecret),
		MovieID:   "heat",
	}
	_, err := env.svc.Verify(context.Background(), params, "neo@matrix.io")
	assert.ErrorIs(t, err, ErrVerificationFailed)

	params.MovieID = "nomed"
	_, err = env.svc.Verify(context.Background(), params, "trinity@matrix.io")
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Empty(t, env.rentals.appended)
	assert.Empty(t, env.guard.claimed)

	params.OrderID = "order_unknown"
	params.Signature = Signature("order_unknown", "pay_9", testSecret)
	_, err = env.svc.Verify(context.Background(), params, "neo@matrix.io")
	assert.Error(t, err)
	assert.Empty(t, env.rentals.appended)
}

func TestVerifyMismatch(t *testing.T) {
	env := newTestEnv()
	params := VerifyParams{OrderID: "order_1", PaymentID: "pay_1", Signature: "deadbeef", MovieID: "heat"}
	_, err := env.svc.Verify(context.Background(), params, "neo@matrix.io")
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Empty(t, env.rentals.appended)
	assert.Empty(t, env.guard.claimed)

	params.Signature = Signature("order_1", "pay_1", "other-secret")
	_, err = env.svc.Verify(context.Background(), params, "neo@matrix.io")
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyWithoutMedia(t *testing.T) {
	env := newTestEnv()
	params := VerifyParams{
		OrderID:   "order_2",
		PaymentID: "pay_2",
		Signature: Signature("order_2", "pay_2", testSecret),
		MovieID:   "nomed",
	}
	url, err := env.svc.Verify(context.Background(), params, "neo@matrix.io")
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.Len(t, env.rentals.appended["neo@matrix.io"], 1)
}

func TestVerifyReleasesClaimOnStoreFailure(t *testing.T) {
	env := newTestEnv()
	env.rentals.err = errors.New("store down")
	params := VerifyParams{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: Signature("order_1", "pay_1", testSecret),
		MovieID:   "heat",
	}
	_, err := env.svc.Verify(context.Background(), params, "neo@matrix.io")
	assert.Error(t, err)
	assert.Equal(t, []string{"pay_1"}, env.guard.released)
	assert.Empty(t, env.guard.claimed)
}

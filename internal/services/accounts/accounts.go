package accounts

import (
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/mails"
	"cinevault/proj/internal/services/auth"
	"cinevault/proj/internal/storage"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

type UsersStorage interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) error
	UpdateRentals(ctx context.Context, email string, current, old []models.Rental, version int64) error
	UpdateWishlist(ctx context.Context, email string, wishlist models.Wishlist, version int64) error
}

type TokenIssuer interface {
	Issue(email, username string) (string, time.Time, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(name string, task func()) error
}

type AccountService struct {
	log          *slog.Logger
	storage      UsersStorage
	tokens       TokenIssuer
	mailer       MailProvider
	taskExecutor TaskExecutor
	rentalPeriod time.Duration
	now          func() time.Time
}

// New builds the account service. mailer may be nil, in which case no mail is sent.
func New(
	log *slog.Logger,
	storage UsersStorage,
	tokens TokenIssuer,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	rentalPeriod time.Duration,
) *AccountService {
	return &AccountService{
		log:          log,
		storage:      storage,
		tokens:       tokens,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		rentalPeriod: rentalPeriod,
		now:          time.Now,
	}
}

type SignupParams struct {
	Username    string
	Email       string
	Password    string
	PhoneNumber string
	Genres      []string
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Email     string
}

type ProfileDTO struct {
	Email          string                `json:"email"`
	Username       string                `json:"username"`
	PhoneNumber    string                `json:"phone_number"`
	Genres         []string              `json:"genre"`
	CurrentRentals []models.Rental       `json:"current_rented_movies"`
	Wishlist       []models.WishlistItem `json:"wishlist"`
	CreatedAt      time.Time             `json:"created_at"`
}

func (s *AccountService) Signup(ctx context.Context, params SignupParams) error {
	const op = "accounts.AccountService.Signup"
	log := s.log.With("op", op, "email", params.Email)
	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		log.Error("Error hashing password", "errMsg", err.Error())
		return err
	}
	user := &models.User{
		Email:          params.Email,
		Username:       params.Username,
		PasswordHash:   hash,
		PhoneNumber:    params.PhoneNumber,
		Genres:         uniqueGenres(params.Genres),
		CurrentRentals: []models.Rental{},
		OldRentals:     []models.Rental{},
		Wishlist:       models.Wishlist{},
		CreatedAt:      s.now().UTC(),
	}
	if err := s.storage.InsertUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return ErrUserAlreadyExists
		}
		log.Error(err.Error())
		return err
	}
	s.queueWelcomeEmail(user)
	return nil
}

func (s *AccountService) queueWelcomeEmail(user *models.User) {
	if s.mailer == nil || s.taskExecutor == nil {
		return
	}
	data := map[string]any{
		"username":   user.Username,
		"genres":     strings.Join(user.Genres, ", "),
		"rentalDays": int(s.rentalPeriod.Hours() / 24),
	}
	err := s.taskExecutor.Add("welcome email", func() {
		if err := s.mailer.Send(user.Email, mails.WelcomeTemplate, data); err != nil {
			s.log.Error("Error sending welcome email", "email", user.Email, "errMsg", err.Error())
		}
	})
	if err != nil {
		s.log.Warn("welcome email not queued", "email", user.Email, "errMsg", err.Error())
	}
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "accounts.AccountService.Login"
	log := s.log.With("op", op, "email", email)
	user, err := s.getUser(ctx, log, email)
	if err != nil {
		return nil, err
	}
	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		log.Error("Error comparing password", "errMsg", err.Error())
		return nil, err
	}
	if !ok {
		log.Info("invalid password")
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(user.Email, user.Username)
	if err != nil {
		log.Error("Error issuing token", "errMsg", err.Error())
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Username: user.Username, Email: user.Email}, nil
}

// Me confirms the session user still exists and moves rentals that ended
// before now into the archive. Losing a race with another write skips the move.
func (s *AccountService) Me(ctx context.Context, email string) error {
	const op = "accounts.AccountService.Me"
	log := s.log.With("op", op, "email", email)
	user, err := s.getUser(ctx, log, email)
	if err != nil {
		return err
	}
	active, expired := models.SplitRentals(user.CurrentRentals, s.now())
	if len(expired) == 0 {
		return nil
	}
	archived := append(append([]models.Rental{}, user.OldRentals...), expired...)
	err = s.storage.UpdateRentals(ctx, email, active, archived, user.Version)
	switch {
	case err == nil:
		log.Info("archived expired rentals", "count", len(expired))
	case errors.Is(err, storage.ErrEditConflict):
		log.Warn("rental sweep skipped, user record changed concurrently")
	default:
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *AccountService) Profile(ctx context.Context, email string) (*ProfileDTO, error) {
	const op = "accounts.AccountService.Profile"
	log := s.log.With("op", op, "email", email)
	user, err := s.getUser(ctx, log, email)
	if err != nil {
		return nil, err
	}
	profile := &ProfileDTO{
		Email:          user.Email,
		Username:       user.Username,
		PhoneNumber:    user.PhoneNumber,
		Genres:         user.Genres,
		CurrentRentals: user.CurrentRentals,
		Wishlist:       user.Wishlist,
		CreatedAt:      user.CreatedAt,
	}
	if profile.Genres == nil {
		profile.Genres = []string{}
	}
	if profile.CurrentRentals == nil {
		profile.CurrentRentals = []models.Rental{}
	}
	if profile.Wishlist == nil {
		profile.Wishlist = []models.WishlistItem{}
	}
	return profile, nil
}

// ToggleWishlist moves item to the end of the wishlist, adding it if absent,
// and returns the stored list.
func (s *AccountService) ToggleWishlist(ctx context.Context, email string, item models.WishlistItem) (models.Wishlist, error) {
	const op = "accounts.AccountService.ToggleWishlist"
	log := s.log.With("op", op, "email", email, "movie_id", item.MovieID)
	user, err := s.getUser(ctx, log, email)
	if err != nil {
		return nil, err
	}
	wishlist := user.Wishlist.Toggle(item)
	if err := s.storage.UpdateWishlist(ctx, email, wishlist, user.Version); err != nil {
		if errors.Is(err, storage.ErrEditConflict) {
			log.Info("wishlist edit conflict")
			return nil, ErrEditConflict
		}
		log.Error(err.Error())
		return nil, err
	}
	return wishlist, nil
}

func (s *AccountService) getUser(ctx context.Context, log *slog.Logger, email string) (*models.User, error) {
	user, err := s.storage.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func uniqueGenres(genres []string) []string {
	seen := make(map[string]bool, len(genres))
	unique := make([]string, 0, len(genres))
	for _, g := range genres {
		if seen[g] {
			continue
		}
		seen[g] = true
		unique = append(unique, g)
	}
	return unique
}

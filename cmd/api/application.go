package main

import (
	"cinevault/proj/internal/api/tasks"
	"cinevault/proj/internal/config"
	"cinevault/proj/internal/lib/validator"
	"cinevault/proj/internal/services"
	"cinevault/proj/internal/services/accounts"
	"cinevault/proj/internal/services/auth"
	"cinevault/proj/internal/services/contact"
	"cinevault/proj/internal/services/movies"
	"cinevault/proj/internal/services/payments"
	"log/slog"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type Application struct {
	cfg          *config.Config
	log          *slog.Logger
	Http         *Http
	validator    *govalidator.Validate
	queryDecoder *schema.Decoder
	tokens       *auth.TokenManager
	movies       *movies.MovieService
	accounts     *accounts.AccountService
	payments     *payments.PaymentService
	contact      *contact.ContactService
	bgTasks      *tasks.BackgroudTasks
}

func NewApplication(cfg *config.Config, log *slog.Logger, svcs *services.Services, bgTasks *tasks.BackgroudTasks) *Application {
	queryDecoder := schema.NewDecoder()
	queryDecoder.IgnoreUnknownKeys(true)
	return &Application{
		cfg:          cfg,
		log:          log,
		validator:    validator.New(),
		queryDecoder: queryDecoder,
		tokens:       svcs.Tokens,
		movies:       svcs.Movies,
		accounts:     svcs.Accounts,
		payments:     svcs.Payments,
		contact:      svcs.Contact,
		bgTasks:      bgTasks,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}

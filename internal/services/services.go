package services

import (
	"cinevault/proj/internal/clients/razorpay"
	"cinevault/proj/internal/clients/s3"
	"cinevault/proj/internal/config"
	"cinevault/proj/internal/mails"
	"cinevault/proj/internal/services/accounts"
	"cinevault/proj/internal/services/auth"
	"cinevault/proj/internal/services/contact"
	"cinevault/proj/internal/services/movies"
	"cinevault/proj/internal/services/payments"
	"cinevault/proj/internal/storage/dynamo"
	"cinevault/proj/internal/storage/postgres"
	pgmodels "cinevault/proj/internal/storage/postgres/models"
	"cinevault/proj/internal/storage/replay"
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

type Services struct {
	Tokens   *auth.TokenManager
	Movies   *movies.MovieService
	Accounts *accounts.AccountService
	Payments *payments.PaymentService
	Contact  *contact.ContactService
}

type TaskExecutor interface {
	Add(name string, task func()) error
}

type usersStore interface {
	accounts.UsersStorage
	payments.RentalsStorage
}

type stores struct {
	movies   movies.MoviesStorage
	users    usersStore
	contacts contact.ContactStorage
}

// New builds every service from cfg. The returned func releases database and cache connections.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config, taskExecutor TaskExecutor) (*Services, func(), error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.DynamoDB.Region))
	if err != nil {
		return nil, nil, fmt.Errorf("loading aws config: %w", err)
	}
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var st stores
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		closers = append(closers, db.Close)
		m := pgmodels.New(db)
		st = stores{movies: m.Movie, users: m.User, contacts: m.Contact}
	default:
		db := dynamo.New(dynamo.NewClient(awsCfg, cfg.DynamoDB.Endpoint), dynamo.Tables{
			Movies:     cfg.DynamoDB.MoviesTable,
			Users:      cfg.DynamoDB.UsersTable,
			Contact:    cfg.DynamoDB.ContactTable,
			GenreIndex: cfg.DynamoDB.GenreIndex,
		})
		st = stores{movies: db, users: db, contacts: db}
	}
	log.Info("storage initialized", "driver", cfg.Storage.Driver)

	var guard payments.ReplayGuard = replay.NopGuard{}
	if cfg.Redis.Addr != "" {
		client, err := replay.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { client.Close() })
		guard = replay.NewRedisGuard(client)
	} else {
		log.Warn("redis address is empty, payment replay guard disabled")
	}

	var mailer accounts.MailProvider
	if cfg.SMTP.Host != "" {
		mailer = mails.New(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Timeout,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.Sender,
			cfg.SMTP.RetriesCount,
		)
	}

	presigner := s3.New(awsCfg, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.KeyPrefix, cfg.S3.PresignExpiry)
	gateway := razorpay.New(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.Currency)
	tokens := auth.NewTokenManager(log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return &Services{
		Tokens:   tokens,
		Movies:   movies.New(log, st.movies, st.users, presigner),
		Accounts: accounts.New(log, st.users, tokens, mailer, taskExecutor, cfg.Rental.Duration),
		Payments: payments.New(
			log,
			st.movies,
			st.users,
			gateway,
			presigner,
			guard,
			cfg.Razorpay.KeySecret,
			cfg.Rental.Duration,
			cfg.Redis.ClaimTTL,
		),
		Contact: contact.New(log, st.contacts, mailer, taskExecutor, cfg.SMTP.SupportEmail),
	}, closeAll, nil
}

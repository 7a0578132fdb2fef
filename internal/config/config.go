package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
)

type Config struct {
	Debug    bool     `yaml:"debug" env:"DEBUG"`
	Lambda   bool     `yaml:"lambda" env:"LAMBDA"`
	Version  string   `yaml:"version" env-default:"1.0.0"`
	Auth     Auth     `yaml:"auth"`
	Server   Server   `yaml:"server"`
	CORS     CORS     `yaml:"cors"`
	Limiter  Limiter  `yaml:"limiter"`
	Log      Log      `yaml:"log"`
	Storage  Storage  `yaml:"storage"`
	DynamoDB DynamoDB `yaml:"dynamodb"`
	DB       DB       `yaml:"db"`
	S3       S3       `yaml:"s3"`
	Razorpay Razorpay `yaml:"razorpay"`
	Redis    Redis    `yaml:"redis"`
	Rental   Rental   `yaml:"rental"`
	SMTP     SMTP     `yaml:"smtp"`
	Workers  Workers  `yaml:"workers"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env-default:"3h"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
	Host string `yaml:"host" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type CORS struct {
	AllowedOrigin string `yaml:"allowed_origin" env:"CORS_ALLOWED_ORIGIN" env-default:"http://localhost:3000"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type Log struct {
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"30"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"dynamodb"`
}

type DynamoDB struct {
	Region       string `yaml:"region" env:"AWS_REGION" env-default:"ap-south-1"`
	Endpoint     string `yaml:"endpoint" env:"DYNAMODB_ENDPOINT"`
	MoviesTable  string `yaml:"movies_table" env-default:"movie-data"`
	UsersTable   string `yaml:"users_table" env-default:"user-data"`
	ContactTable string `yaml:"contact_table" env-default:"contact-form-data"`
	GenreIndex   string `yaml:"genre_index" env-default:"genre-index"`
}

type DB struct {
	Dsn             string        `yaml:"dsn" env:"DB_DSN"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
}

type S3 struct {
	Bucket        string        `yaml:"bucket" env:"BUCKET_NAME"`
	Region        string        `yaml:"region" env:"AWS_REGION" env-default:"ap-south-1"`
	KeyPrefix     string        `yaml:"key_prefix" env-default:"MovieVideo/"`
	PresignExpiry time.Duration `yaml:"presign_expiry" env-default:"600s"`
}

type Razorpay struct {
	KeyID     string `yaml:"key_id" env:"RAZORPAY_KEY_ID"`
	KeySecret string `yaml:"key_secret" env:"RAZORPAY_SECRET"`
	Currency  string `yaml:"currency" env-default:"INR"`
}

// Redis backs the payment replay guard. An empty Addr disables the guard.
// A zero ClaimTTL keeps claimed payment ids forever.
type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env-default:"0"`
	ClaimTTL time.Duration `yaml:"claim_ttl" env-default:"0s"`
}

type Rental struct {
	Duration time.Duration `yaml:"duration" env-default:"72h"`
}

// SMTP configures outgoing mail. An empty Host disables mail.
type SMTP struct {
	Host         string        `yaml:"host" env:"SMTP_HOST"`
	Port         int           `yaml:"port" env-default:"25"`
	Username     string        `yaml:"username" env:"SMTP_USERNAME"`
	Password     string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender       string        `yaml:"sender" env-default:"CineVault <no-reply@cinevault.local>"`
	SupportEmail string        `yaml:"support_email" env-default:"support@cinevault.local"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

type Workers struct {
	Count     int `yaml:"count" env-default:"3"`
	QueueSize int `yaml:"queue_size" env-default:"100"`
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s not found", configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	switch c.Storage.Driver {
	case DriverDynamoDB:
		if c.DynamoDB.MoviesTable == "" || c.DynamoDB.UsersTable == "" || c.DynamoDB.ContactTable == "" {
			errs = append(errs, errors.New("dynamodb table names are required"))
		}
	case DriverPostgres:
		if c.DB.Dsn == "" {
			errs = append(errs, errors.New("db.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		errs = append(errs, errors.New("razorpay.key_id and razorpay.key_secret are required"))
	}
	if c.S3.PresignExpiry <= 0 {
		errs = append(errs, errors.New("s3.presign_expiry must be positive"))
	}
	if c.Redis.ClaimTTL < 0 {
		errs = append(errs, errors.New("redis.claim_ttl must not be negative"))
	}
	if c.Rental.Duration <= 0 {
		errs = append(errs, errors.New("rental.duration must be positive"))
	}
	return errors.Join(errs...)
}

package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DBConfig configures the Postgres connection. When Url is empty the service
// falls back to in-memory repositories (local development and tests).
type DBConfig struct {
	Url             string        `envconfig:"URL"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
}

// QueueConfig tunes the payment work queue.
type QueueConfig struct {
	Workers int `envconfig:"WORKERS" default:"10"`
	Buffer  int `envconfig:"BUFFER" default:"1024"`
}

// ProcessorConfig tunes the payment processor.
type ProcessorConfig struct {
	// MaxRetries bounds settlement attempts; reaching it makes the next
	// failure terminal.
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`
	// RetryBackoff is the base delay for exponential backoff between
	// settlement attempts.
	RetryBackoff time.Duration `envconfig:"RETRY_BACKOFF" default:"2s"`
	// ProviderTimeout bounds a single settlement call; exceeding it counts
	// as a failed attempt.
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`
	// LeaseTTL bounds the per-payment processing claim.
	LeaseTTL time.Duration `envconfig:"LEASE_TTL" default:"60s"`
}

// FraudConfig tunes risk screening.
type FraudConfig struct {
	LargeAmountCeiling float64  `envconfig:"LARGE_AMOUNT_CEILING" default:"10000"`
	HighRiskCountries  []string `envconfig:"HIGH_RISK_COUNTRIES" default:"XX,YY,ZZ"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"payflow"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `envconfig:"ADDR" default:":8080"`
}

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// AppConfig is the root configuration, populated from the environment.
type AppConfig struct {
	Env       string          `envconfig:"APP_ENV" default:"development"`
	DB        DBConfig        `envconfig:"DATABASE"`
	Queue     QueueConfig     `envconfig:"QUEUE"`
	Processor ProcessorConfig `envconfig:"PROCESSOR"`
	Fraud     FraudConfig     `envconfig:"FRAUD"`
	Log       LogConfig       `envconfig:"LOG"`
	Server    ServerConfig    `envconfig:"SERVER"`
	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT"`
}

// LoadAppConfig reads configuration from .env and the environment.
func LoadAppConfig(logger *slog.Logger) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	logger.Info("App config loaded",
		"queue_workers", cfg.Queue.Workers,
		"max_retries", cfg.Processor.MaxRetries,
		"provider_timeout", cfg.Processor.ProviderTimeout,
	)
	return &cfg, nil
}

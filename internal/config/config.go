package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	PaymentFunctionsURL string
	PaymentFunctionsKey string
	PaymentLanguage     string
	JWTSecret           string
	TokenTTL            time.Duration
	CatalogPageSize     int
	PaymentPollInterval time.Duration
	PaymentPollMinAge   time.Duration
	WorkerPoolSize      int
	MaxPaymentsBatch    int
	ShutdownTimeout     time.Duration
	LogLevel            string
}

const (
	defaultRunAddress          = ":8080"
	defaultPaymentLanguage     = "vn"
	defaultJWTSecret           = "change-me-in-production"
	defaultTokenTTL            = 24 * time.Hour
	defaultCatalogPageSize     = 20
	defaultPaymentPollInterval = 30 * time.Second
	defaultPaymentPollMinAge   = 15 * time.Minute
	defaultWorkerPoolSize      = 2
	defaultMaxPaymentsBatch    = 16
	defaultShutdownTimeout     = 10 * time.Second
	defaultLogLevel            = "info"
)

// Load reads an optional .env file (ENV_FILE overrides the path), then parses
// configuration from flags and environment variables.
func Load() (*Config, error) {
	if err := loadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

func loadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		PaymentFunctionsURL: getString(lookup, "PAYMENT_FUNCTIONS_URL", ""),
		PaymentFunctionsKey: getString(lookup, "PAYMENT_FUNCTIONS_KEY", ""),
		PaymentLanguage:     getString(lookup, "PAYMENT_LANGUAGE", defaultPaymentLanguage),
		JWTSecret:           getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:            getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		CatalogPageSize:     getInt(lookup, "CATALOG_PAGE_SIZE", defaultCatalogPageSize),
		PaymentPollInterval: getDuration(lookup, "PAYMENT_POLL_INTERVAL", defaultPaymentPollInterval),
		PaymentPollMinAge:   getDuration(lookup, "PAYMENT_POLL_MIN_AGE", defaultPaymentPollMinAge),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		MaxPaymentsBatch:    getInt(lookup, "POLL_BATCH_SIZE", defaultMaxPaymentsBatch),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	flags := flag.NewFlagSet("pcbuilder", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		pollIntervalStr    = cfg.PaymentPollInterval.String()
		pollMinAgeStr      = cfg.PaymentPollMinAge.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.PaymentFunctionsURL, "p", cfg.PaymentFunctionsURL, "Payment functions base URL")
	flags.StringVar(&cfg.PaymentFunctionsKey, "payment-key", cfg.PaymentFunctionsKey, "Bearer key for payment functions")
	flags.StringVar(&cfg.PaymentLanguage, "payment-language", cfg.PaymentLanguage, "Payment page language")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	flags.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Auth token lifetime")
	flags.IntVar(&cfg.CatalogPageSize, "page-size", cfg.CatalogPageSize, "Default catalogue page size")
	flags.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent payment pollers")
	flags.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between pending payment polls")
	flags.StringVar(&pollMinAgeStr, "poll-min-age", pollMinAgeStr, "Minimum age of a pending payment before it is queried")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.IntVar(&cfg.MaxPaymentsBatch, "poll-batch", cfg.MaxPaymentsBatch, "Maximum payments per polling batch")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.PaymentPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.PaymentPollMinAge, err = time.ParseDuration(pollMinAgeStr); err != nil {
		return nil, fmt.Errorf("invalid poll min age: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.CatalogPageSize <= 0 {
		cfg.CatalogPageSize = defaultCatalogPageSize
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxPaymentsBatch <= 0 {
		cfg.MaxPaymentsBatch = defaultMaxPaymentsBatch
	}

	if cfg.PaymentPollInterval <= 0 {
		cfg.PaymentPollInterval = defaultPaymentPollInterval
	}

	if cfg.PaymentPollMinAge <= 0 {
		cfg.PaymentPollMinAge = defaultPaymentPollMinAge
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PaymentFunctionsURL == "" {
		return nil, fmt.Errorf("payment functions URL must be provided")
	}
	cfg.PaymentFunctionsURL = strings.TrimRight(cfg.PaymentFunctionsURL, "/")

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

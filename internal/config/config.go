package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	LogLevel    string

	JWTSecret      string
	JWTAlgorithm   string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	WompiAPIURL       string
	WompiCheckoutURL  string
	WompiPrivateKey   string
	WompiEventsSecret string
	WompiRedirectURL  string
	Currency          string
	GatewayTimeout    time.Duration

	NotifyWorkers   int
	NotifyQueueSize int
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress       = ":8080"
	defaultLogLevel         = "info"
	defaultJWTSecret        = "change-me-in-production"
	defaultJWTAlgorithm     = "HS256"
	defaultJWTIssuer        = "storefront"
	defaultAccessTokenTTL   = 30 * time.Minute
	defaultWompiAPIURL      = "https://sandbox.wompi.co/v1"
	defaultWompiCheckoutURL = "https://checkout.wompi.co"
	defaultCurrency         = "COP"
	defaultGatewayTimeout   = 10 * time.Second
	defaultNotifyWorkers    = 2
	defaultNotifyQueueSize  = 256
	defaultShutdownTimeout  = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		JWTAlgorithm:      getString(lookup, "JWT_ALGORITHM", defaultJWTAlgorithm),
		JWTIssuer:         getString(lookup, "JWT_ISSUER", defaultJWTIssuer),
		AccessTokenTTL:    getDuration(lookup, "ACCESS_TOKEN_TTL", defaultAccessTokenTTL),
		WompiAPIURL:       getString(lookup, "WOMPI_API_URL", defaultWompiAPIURL),
		WompiCheckoutURL:  getString(lookup, "WOMPI_CHECKOUT_URL", defaultWompiCheckoutURL),
		WompiPrivateKey:   getString(lookup, "WOMPI_PRIVATE_KEY", ""),
		WompiEventsSecret: getString(lookup, "WOMPI_EVENTS_SECRET", ""),
		WompiRedirectURL:  getString(lookup, "WOMPI_REDIRECT_URL", ""),
		Currency:          getString(lookup, "CURRENCY", defaultCurrency),
		GatewayTimeout:    getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		NotifyWorkers:     getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyQueueSize:   getInt(lookup, "NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.AccessTokenTTL.String()
		gatewayTimeoutStr  = cfg.GatewayTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing access tokens")
	fs.StringVar(&cfg.JWTAlgorithm, "jwt-algorithm", cfg.JWTAlgorithm, "HMAC algorithm for access tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Access token lifetime")
	fs.StringVar(&cfg.WompiAPIURL, "wompi-api", cfg.WompiAPIURL, "Wompi API base URL")
	fs.StringVar(&cfg.WompiRedirectURL, "redirect-url", cfg.WompiRedirectURL, "Where the gateway sends customers after paying")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Timeout for payment gateway calls")
	fs.IntVar(&cfg.NotifyWorkers, "notify-workers", cfg.NotifyWorkers, "Number of notification workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.AccessTokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.JWTSecret, err = readSecretFile(lookup, "JWT_SECRET_FILE", cfg.JWTSecret); err != nil {
		return nil, fmt.Errorf("read jwt secret file: %w", err)
	}

	if cfg.WompiPrivateKey, err = readSecretFile(lookup, "WOMPI_PRIVATE_KEY_FILE", cfg.WompiPrivateKey); err != nil {
		return nil, fmt.Errorf("read wompi private key file: %w", err)
	}

	if cfg.WompiEventsSecret, err = readSecretFile(lookup, "WOMPI_EVENTS_SECRET_FILE", cfg.WompiEventsSecret); err != nil {
		return nil, fmt.Errorf("read wompi events secret file: %w", err)
	}

	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = defaultAccessTokenTTL
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	cfg.Currency = strings.ToUpper(cfg.Currency)
	cfg.JWTAlgorithm = strings.ToUpper(cfg.JWTAlgorithm)

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.WompiPrivateKey != "" && cfg.WompiEventsSecret == "" {
		return nil, fmt.Errorf("wompi events secret must be provided together with the private key")
	}

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

func readSecretFile(lookup envLookup, key, current string) (string, error) {
	path, ok := lookup(key)
	if !ok || path == "" {
		return current, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
}

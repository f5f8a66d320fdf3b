package config

import (
	"log/slog"

	"go.uber.org/fx"
)

// Module loads configuration and reports the effective settings at start-up.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(Report),
)

// Report logs non-secret settings and warns about unsafe defaults.
func Report(cfg *Config, logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.String("run_address", cfg.RunAddress),
		slog.String("wompi_api_url", cfg.WompiAPIURL),
		slog.String("currency", cfg.Currency),
		slog.Bool("gateway_stubbed", cfg.WompiPrivateKey == ""),
		slog.Int("notify_workers", cfg.NotifyWorkers),
		slog.Duration("access_token_ttl", cfg.AccessTokenTTL),
	)
	if cfg.JWTSecret == defaultJWTSecret {
		logger.Warn("JWT_SECRET is the built-in default; set a real secret outside development")
	}
	if cfg.WompiEventsSecret == "" {
		logger.Warn("WOMPI_EVENTS_SECRET is empty; gateway events cannot be verified")
	}
}

package auth

import (
	"go.uber.org/fx"

	"github.com/fotovariedades/storefront/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) (Strategy, error) {
	return NewJWTStrategy(p.Config.JWTSecret, Options{
		TTL:       p.Config.AccessTokenTTL,
		Algorithm: p.Config.JWTAlgorithm,
		Issuer:    p.Config.JWTIssuer,
	})
}

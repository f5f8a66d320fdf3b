package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fotovariedades/storefront/internal/config"
)

func TestNewPasswordHasher(t *testing.T) {
	hasher := newPasswordHasher()
	bcryptHasher, ok := hasher.(*BcryptHasher)
	if !ok {
		t.Fatalf("expected *BcryptHasher, got %T", hasher)
	}
	if bcryptHasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", bcryptHasher.cost)
	}
}

func TestNewTokenStrategy(t *testing.T) {
	strategy, err := newTokenStrategy(strategyParams{Config: &config.Config{
		JWTSecret:      "top-secret",
		JWTAlgorithm:   "HS384",
		JWTIssuer:      "storefront",
		AccessTokenTTL: 45 * time.Minute,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	jwtStrategy, ok := strategy.(*JWTStrategy)
	if !ok {
		t.Fatalf("expected *JWTStrategy, got %T", strategy)
	}
	if string(jwtStrategy.secret) != "top-secret" {
		t.Fatalf("unexpected secret: %q", string(jwtStrategy.secret))
	}
	if jwtStrategy.ttl != 45*time.Minute || jwtStrategy.issuer != "storefront" {
		t.Fatalf("unexpected strategy: %+v", jwtStrategy)
	}
	if jwtStrategy.Name() != "jwt-HS384" {
		t.Fatalf("unexpected name: %s", jwtStrategy.Name())
	}
}

func TestNewTokenStrategyRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := newTokenStrategy(strategyParams{Config: &config.Config{JWTSecret: "s", JWTAlgorithm: "none"}}); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}

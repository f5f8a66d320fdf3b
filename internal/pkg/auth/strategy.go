package auth

import (
	"errors"
	"time"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

type Strategy interface {
	IssueToken(principal model.Principal) (string, error)
	ParseToken(token string) (model.Principal, error)
	TTL() time.Duration
	Name() string
}

type Options struct {
	TTL       time.Duration
	Algorithm string
	Issuer    string
}

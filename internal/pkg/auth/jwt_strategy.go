package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

const (
	defaultTTL       = 30 * time.Minute
	defaultAlgorithm = "HS256"
)

// accessClaims is the payload of an access token. Subject holds the user id.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTStrategy issues and verifies HMAC signed JWT access tokens.
type JWTStrategy struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) (*JWTStrategy, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	alg := opts.Algorithm
	if alg == "" {
		alg = defaultAlgorithm
	}
	method, err := signingMethod(alg)
	if err != nil {
		return nil, err
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWTStrategy{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		issuer: opts.Issuer,
		now:    time.Now,
	}, nil
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", alg)
	}
}

// IssueToken generates a signed access token for the principal.
func (s *JWTStrategy) IssueToken(principal model.Principal) (string, error) {
	now := s.now()
	claims := accessClaims{
		Email: principal.Email,
		Role:  string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principal.UserID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// ParseToken validates token and returns the principal encoded in it.
func (s *JWTStrategy) ParseToken(token string) (model.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return model.Principal{}, ErrInvalidToken
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return model.Principal{}, ErrInvalidToken
	}
	return model.Principal{UserID: userID, Email: claims.Email, Role: role}, nil
}

// TTL returns lifetime of issued tokens.
func (s *JWTStrategy) TTL() time.Duration {
	return s.ttl
}

func (s *JWTStrategy) Name() string {
	return "jwt-" + s.method.Alg()
}

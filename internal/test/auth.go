package test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fotovariedades/storefront/internal/domain/model"
	pkgAuth "github.com/fotovariedades/storefront/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues tokens of the form "token-<id>-<role>" unless overridden.
type StrategyStub struct {
	IssueFn func(model.Principal) (string, error)
	ParseFn func(string) (model.Principal, error)
	TTLVal  time.Duration
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(p model.Principal) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(p)
	}
	return fmt.Sprintf("token-%d-%s", p.UserID, p.Role), nil
}

// ParseToken parses tokens produced by IssueToken.
func (s StrategyStub) ParseToken(token string) (model.Principal, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	var p model.Principal
	var role string
	if _, err := fmt.Sscanf(token, "token-%d-%s", &p.UserID, &role); err != nil {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	p.Role = model.Role(role)
	return p, nil
}

// TTL returns configured lifetime or one hour.
func (s StrategyStub) TTL() time.Duration {
	if s.TTLVal != 0 {
		return s.TTLVal
	}
	return time.Hour
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// AuthorizerStub resolves bearer tokens for middleware tests.
type AuthorizerStub struct {
	Principal model.Principal
	Err       error
	Fn        func(context.Context, string) (model.Principal, error)
}

// Authorize either delegates to override or returns predefined result.
func (s AuthorizerStub) Authorize(ctx context.Context, token string) (model.Principal, error) {
	if s.Fn != nil {
		return s.Fn(ctx, token)
	}
	if s.Err != nil {
		return model.Principal{}, s.Err
	}
	return s.Principal, nil
}

// Principals for the three roles.
var (
	AdminPrincipal    = model.Principal{UserID: 1, Email: "admin@example.com", Role: model.RoleAdmin}
	StaffPrincipal    = model.Principal{UserID: 2, Email: "staff@example.com", Role: model.RoleStaff}
	CustomerPrincipal = model.Principal{UserID: 3, Email: "ana@example.com", Role: model.RoleCustomer}
)

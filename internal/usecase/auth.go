package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/domain/repository"
	pkgAuth "github.com/fotovariedades/storefront/internal/pkg/auth"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// NewUser holds the fields required to open an account.
type NewUser struct {
	Email    string
	Password string
	FullName string
	Role     model.Role
}

// Register creates a customer account and returns it with an access token.
func (u *AuthUseCase) Register(ctx context.Context, in NewUser) (*model.User, string, error) {
	in.Role = model.RoleCustomer
	usr, err := u.create(ctx, in)
	if err != nil {
		return nil, "", err
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// CreateUser opens an account with any role on behalf of an administrator.
func (u *AuthUseCase) CreateUser(ctx context.Context, in NewUser) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domainErrors.ErrValidation, in.Role)
	}
	return u.create(ctx, in)
}

func (u *AuthUseCase) create(ctx context.Context, in NewUser) (*model.User, error) {
	email := normalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", domainErrors.ErrValidation)
	}
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", domainErrors.ErrValidation)
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	usr := &model.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return usr, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if !usr.IsActive {
		return nil, "", domainErrors.ErrInactiveUser
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ParseToken extracts the principal from provided token without touching storage.
func (u *AuthUseCase) ParseToken(token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// Authorize resolves a token into the current principal. The role is taken from
// storage so that role changes and deactivation apply to tokens already issued.
func (u *AuthUseCase) Authorize(ctx context.Context, token string) (model.Principal, error) {
	claimed, err := u.ParseToken(token)
	if err != nil {
		return model.Principal{}, err
	}
	usr, err := u.active(ctx, claimed.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return model.Principal{}, pkgAuth.ErrInvalidToken
		}
		return model.Principal{}, err
	}
	return principalOf(usr), nil
}

// Me returns the account of the principal.
func (u *AuthUseCase) Me(ctx context.Context, principal model.Principal) (*model.User, error) {
	return u.active(ctx, principal.UserID)
}

// Refresh issues a new token for an active account.
func (u *AuthUseCase) Refresh(ctx context.Context, principal model.Principal) (string, error) {
	usr, err := u.active(ctx, principal.UserID)
	if err != nil {
		return "", err
	}
	return u.issue(usr)
}

// ChangePassword replaces the password after checking the current one.
func (u *AuthUseCase) ChangePassword(ctx context.Context, principal model.Principal, current, next string) error {
	usr, err := u.active(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if err := u.hasher.Compare(usr.PasswordHash, current); err != nil {
		return domainErrors.ErrInvalidCredentials
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	hash, err := u.hasher.Hash(next)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, usr.ID, hash)
}

// ListUsers returns a page of accounts and the total count.
func (u *AuthUseCase) ListUsers(ctx context.Context, page model.Page) ([]model.User, int, error) {
	return u.users.List(ctx, page.Normalize())
}

// UpdateUser applies an administrative patch. Administrators cannot demote or
// deactivate their own account.
func (u *AuthUseCase) UpdateUser(ctx context.Context, actor model.Principal, id int64, patch model.UserPatch) (*model.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domainErrors.ErrValidation, *patch.Role)
	}
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return nil, fmt.Errorf("%w: full name is required", domainErrors.ErrValidation)
		}
		patch.FullName = &name
	}
	if actor.UserID == id {
		if patch.IsActive != nil && !*patch.IsActive {
			return nil, fmt.Errorf("%w: cannot deactivate own account", domainErrors.ErrValidation)
		}
		if patch.Role != nil && *patch.Role != actor.Role {
			return nil, fmt.Errorf("%w: cannot change own role", domainErrors.ErrValidation)
		}
	}
	return u.users.Update(ctx, id, patch)
}

// TokenTTL returns lifetime of issued tokens.
func (u *AuthUseCase) TokenTTL() time.Duration {
	return u.tokens.TTL()
}

func (u *AuthUseCase) active(ctx context.Context, id int64) (*model.User, error) {
	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !usr.IsActive {
		return nil, domainErrors.ErrInactiveUser
	}
	return usr, nil
}

func (u *AuthUseCase) issue(usr *model.User) (string, error) {
	return u.tokens.IssueToken(principalOf(usr))
}

func principalOf(usr *model.User) model.Principal {
	return model.Principal{UserID: usr.ID, Email: usr.Email, Role: usr.Role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t") && strings.Count(email, "@") == 1
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domainErrors.ErrValidation, MinPasswordLength)
	}
	return nil
}

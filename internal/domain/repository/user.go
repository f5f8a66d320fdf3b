package repository

import (
	"context"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, page model.Page) ([]model.User, int, error)
	Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

package repository

import (
	"context"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

// ProductRepository describes catalog persistence and stock accounting.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter, page model.Page) ([]model.Product, int, error)
	Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error)
	// LockForUpdate returns the existing products among ids, ordered by id, with row locks held
	// until the surrounding transaction ends.
	LockForUpdate(ctx context.Context, ids []int64) ([]model.Product, error)
	// AdjustStock adds delta to stock and returns the new level. Stock never drops below zero.
	AdjustStock(ctx context.Context, id int64, delta int) (int, error)
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/domain/repository"
)

// ProductUseCase manages the catalog.
type ProductUseCase struct {
	store repository.Store
}

// NewProductUseCase constructs ProductUseCase.
func NewProductUseCase(store repository.Factory) *ProductUseCase {
	return &ProductUseCase{store: store}
}

// List returns catalog entries visible to the caller. Inactive products are
// only listed for principals allowed to see them.
func (u *ProductUseCase) List(ctx context.Context, viewer *model.Principal, filter model.ProductFilter, page model.Page) ([]model.Product, int, error) {
	if filter.IncludeInactive && (viewer == nil || !viewer.Can(model.PermViewInactive)) {
		filter.IncludeInactive = false
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, fmt.Errorf("%w: min_price exceeds max_price", domainErrors.ErrValidation)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)
	return u.store.Products().List(ctx, filter, page.Normalize())
}

// Get returns one product. Inactive products look missing to callers that cannot see them.
func (u *ProductUseCase) Get(ctx context.Context, viewer *model.Principal, id int64) (*model.Product, error) {
	product, err := u.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive && (viewer == nil || !viewer.Can(model.PermViewInactive)) {
		return nil, domainErrors.ErrNotFound
	}
	return product, nil
}

// Create validates and stores a new active product.
func (u *ProductUseCase) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domainErrors.ErrValidation)
	}
	price, err := normalizePrice(product.Price)
	if err != nil {
		return nil, err
	}
	product.Price = price
	if product.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domainErrors.ErrValidation)
	}
	product.IsActive = true

	if err := u.store.Products().Create(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update applies a partial change. Existing order items keep their snapshot prices.
func (u *ProductUseCase) Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", domainErrors.ErrValidation)
		}
		patch.Name = &name
	}
	if patch.Price != nil {
		price, err := normalizePrice(*patch.Price)
		if err != nil {
			return nil, err
		}
		patch.Price = &price
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domainErrors.ErrValidation)
	}
	return u.store.Products().Update(ctx, id, patch)
}

// Deactivate hides a product from the catalog without deleting it.
func (u *ProductUseCase) Deactivate(ctx context.Context, id int64) error {
	inactive := false
	_, err := u.store.Products().Update(ctx, id, model.ProductPatch{IsActive: &inactive})
	return err
}

// AdjustInventory adds a signed delta to the stock and returns the new level.
func (u *ProductUseCase) AdjustInventory(ctx context.Context, id int64, delta int) (int, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: adjustment must not be zero", domainErrors.ErrValidation)
	}
	return u.store.Products().AdjustStock(ctx, id, delta)
}

func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	price = price.Round(2)
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: price must be greater than zero", domainErrors.ErrValidation)
	}
	return price, nil
}

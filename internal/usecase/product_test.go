package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	testhelpers "github.com/fotovariedades/storefront/internal/test"
)

func TestProductUseCaseCreate(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewProductUseCase(store)
	ctx := context.Background()

	product, err := uc.Create(ctx, model.Product{Name: " Frame ", Price: decimal.RequireFromString("12.345"), Stock: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.ID == 0 || product.Name != "Frame" || !product.IsActive {
		t.Fatalf("unexpected product: %+v", product)
	}
	if product.Price.String() != "12.35" {
		t.Fatalf("expected price rounded to cents, got %s", product.Price)
	}

	invalid := map[string]model.Product{
		"no name":        {Price: decimal.NewFromInt(1)},
		"zero price":     {Name: "x", Price: decimal.Zero},
		"negative price": {Name: "x", Price: decimal.NewFromInt(-3)},
		"rounds to zero": {Name: "x", Price: decimal.RequireFromString("0.004")},
		"negative stock": {Name: "x", Price: decimal.NewFromInt(1), Stock: -1},
	}
	for name, p := range invalid {
		t.Run(name, func(t *testing.T) {
			if _, err := uc.Create(ctx, p); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestProductUseCaseVisibility(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewProductUseCase(store)
	ctx := context.Background()
	active := store.SeedProduct(model.Product{Name: "Mug", Price: decimal.NewFromInt(10), IsActive: true, Stock: 1})
	hidden := store.SeedProduct(model.Product{Name: "Old mug", Price: decimal.NewFromInt(10), IsActive: false})

	customer := testhelpers.CustomerPrincipal
	staff := testhelpers.StaffPrincipal

	items, total, err := uc.List(ctx, &customer, model.ProductFilter{IncludeInactive: true}, model.Page{})
	if err != nil || total != 1 || items[0].ID != active.ID {
		t.Fatalf("customers must not see inactive products: %+v total=%d err=%v", items, total, err)
	}
	_, total, err = uc.List(ctx, nil, model.ProductFilter{IncludeInactive: true}, model.Page{})
	if err != nil || total != 1 {
		t.Fatalf("anonymous must not see inactive products: total=%d err=%v", total, err)
	}
	_, total, err = uc.List(ctx, &staff, model.ProductFilter{IncludeInactive: true}, model.Page{})
	if err != nil || total != 2 {
		t.Fatalf("staff should see inactive products: total=%d err=%v", total, err)
	}

	if _, err := uc.Get(ctx, nil, hidden.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected inactive product to look missing, got %v", err)
	}
	if p, err := uc.Get(ctx, &staff, hidden.ID); err != nil || p.ID != hidden.ID {
		t.Fatalf("staff should get inactive product: %+v err=%v", p, err)
	}
	if _, err := uc.Get(ctx, nil, 999); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	min, max := decimal.NewFromInt(20), decimal.NewFromInt(10)
	if _, _, err := uc.List(ctx, nil, model.ProductFilter{MinPrice: &min, MaxPrice: &max}, model.Page{}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for inverted price range, got %v", err)
	}
}

func TestProductUseCaseUpdateAndDeactivate(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewProductUseCase(store)
	ctx := context.Background()
	p := store.SeedProduct(model.Product{Name: "Mug", Price: decimal.NewFromInt(10), IsActive: true, Stock: 1})

	price := decimal.RequireFromString("11.999")
	updated, err := uc.Update(ctx, p.ID, model.ProductPatch{Price: &price})
	if err != nil || updated.Price.String() != "12" {
		t.Fatalf("unexpected update: %+v err=%v", updated, err)
	}

	zero := decimal.Zero
	if _, err := uc.Update(ctx, p.ID, model.ProductPatch{Price: &zero}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	empty := ""
	if _, err := uc.Update(ctx, p.ID, model.ProductPatch{Name: &empty}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	negative := -2
	if _, err := uc.Update(ctx, p.ID, model.ProductPatch{Stock: &negative}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := uc.Deactivate(ctx, p.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	stored, _ := store.Product(p.ID)
	if stored.IsActive {
		t.Fatal("expected product to be inactive")
	}
	if err := uc.Deactivate(ctx, 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductUseCaseAdjustInventory(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewProductUseCase(store)
	ctx := context.Background()
	p := store.SeedProduct(model.Product{Name: "Mug", Price: decimal.NewFromInt(10), IsActive: true, Stock: 2})

	stock, err := uc.AdjustInventory(ctx, p.ID, 5)
	if err != nil || stock != 7 {
		t.Fatalf("unexpected stock %d err=%v", stock, err)
	}
	if _, err := uc.AdjustInventory(ctx, p.ID, -8); !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if _, err := uc.AdjustInventory(ctx, p.ID, 0); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	stored, _ := store.Product(p.ID)
	if stored.Stock != 7 {
		t.Fatalf("stock must not change on rejected adjustment, got %d", stored.Stock)
	}
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

// ProductRequest describes a new catalog entry.
type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
}

// ProductPatchRequest carries optional catalog fields.
type ProductPatchRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
	Stock       *int             `json:"stock"`
	IsActive    *bool            `json:"is_active"`
}

// Patch converts the request into a domain patch.
func (r ProductPatchRequest) Patch() model.ProductPatch {
	return model.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
	}
}

// InventoryRequest is a signed stock adjustment.
type InventoryRequest struct {
	Delta int `json:"delta"`
}

// InventoryResponse reports stock after an adjustment.
type InventoryResponse struct {
	ProductID int64 `json:"product_id"`
	Stock     int   `json:"stock"`
}

// ProductResponse is the public view of a catalog entry.
type ProductResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"image_url"`
	Stock       int        `json:"stock"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// NewProductResponse converts a domain product.
func NewProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

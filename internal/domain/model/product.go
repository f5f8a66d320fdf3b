package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry that can be ordered while active and in stock.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageURL    string
	Stock       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Available reports whether qty units can be sold right now.
func (p Product) Available(qty int) bool {
	return p.IsActive && qty > 0 && p.Stock >= qty
}

// ProductPatch carries optional fields for partial catalog updates.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	ImageURL    *string
	Stock       *int
	IsActive    *bool
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Search          string
	Category        string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	InStock         *bool
	IncludeInactive bool
}

package dto

import "github.com/fotovariedades/storefront/internal/domain/model"

// PageResponse wraps one page of a listing.
type PageResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse builds the envelope for items selected by page out of total rows.
func NewPageResponse[T any](items []T, total int, page model.Page) PageResponse[T] {
	n := page.Normalize()
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{
		Items:      items,
		Total:      total,
		Page:       n.Number,
		PageSize:   n.Size,
		TotalPages: n.TotalPages(total),
	}
}

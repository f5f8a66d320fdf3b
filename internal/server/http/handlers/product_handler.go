package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/server/http/dto"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	facade CatalogFacade
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(facade CatalogFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	filter, err := productFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	products, total, err := h.facade.Products(c.Request.Context(), optionalPrincipal(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, dto.NewProductResponse(p))
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(items, total, page))
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	product, err := h.facade.Product(c.Request.Context(), optionalPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(*product))
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	product, err := h.facade.CreateProduct(c.Request.Context(), model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		IsActive:    true,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProductResponse(*product))
}

// Update handles PUT /api/products/:id. Only the fields present in the body change.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req dto.ProductPatchRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	product, err := h.facade.UpdateProduct(c.Request.Context(), id, req.Patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(*product))
}

// Delete handles DELETE /api/products/:id by deactivating the product.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.facade.DeactivateProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustInventory handles POST /api/products/:id/inventory.
func (h *ProductHandler) AdjustInventory(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req dto.InventoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	stock, err := h.facade.AdjustInventory(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.InventoryResponse{ProductID: id, Stock: stock})
}

func productFilter(c *gin.Context) (model.ProductFilter, error) {
	filter := model.ProductFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
	}
	var err error
	if filter.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return filter, err
	}
	if filter.InStock, err = queryBool(c, "in_stock"); err != nil {
		return filter, err
	}
	includeInactive, err := queryBool(c, "include_inactive")
	if err != nil {
		return filter, err
	}
	filter.IncludeInactive = includeInactive != nil && *includeInactive
	return filter, nil
}

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, validationError("%s must be a number", key)
	}
	return &v, nil
}

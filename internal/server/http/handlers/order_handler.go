package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/pkg/qrcode"
	"github.com/fotovariedades/storefront/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/checkout.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	result, err := h.facade.Checkout(c.Request.Context(), CurrentPrincipal(c), req.Lines(), req.RedirectURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCheckoutResponse(*result))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	orders, total, err := h.facade.MyOrders(c.Request.Context(), CurrentPrincipal(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(toOrderResponses(orders), total, page))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := paramUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// QRCode handles GET /api/orders/:id/qr.
func (h *OrderHandler) QRCode(c *gin.Context) {
	id, err := paramUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	size, err := queryInt(c, "size")
	if err != nil {
		respondError(c, err)
		return
	}
	if size == 0 {
		size = qrcode.DefaultSize
	}
	png, err := h.facade.OrderQRCode(c.Request.Context(), CurrentPrincipal(c), id, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := paramUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := h.facade.CancelOrder(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// Redeem handles POST /api/orders/redeem.
func (h *OrderHandler) Redeem(c *gin.Context) {
	var req dto.RedeemRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	order, err := h.facade.RedeemOrder(c.Request.Context(), CurrentPrincipal(c), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RedeemResponse{
		Success:    true,
		Message:    "order redeemed",
		Order:      dto.NewOrderResponse(*order),
		RedeemedAt: order.RedeemedAt,
	})
}

// AdminList handles GET /api/admin/orders.
func (h *OrderHandler) AdminList(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	filter, err := orderFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	orders, total, err := h.facade.Orders(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(toOrderResponses(orders), total, page))
}

// Statistics handles GET /api/admin/orders/stats.
func (h *OrderHandler) Statistics(c *gin.Context) {
	stats, err := h.facade.OrderStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderStatisticsResponse(*stats))
}

func orderFilter(c *gin.Context) (model.OrderFilter, error) {
	var filter model.OrderFilter
	var err error
	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseOrderStatus(raw)
		if !ok {
			return filter, validationError("unknown status %q", raw)
		}
		filter.Status = &status
	}
	if filter.UserID, err = queryInt64(c, "user_id"); err != nil {
		return filter, err
	}
	if filter.IsRedeemed, err = queryBool(c, "is_redeemed"); err != nil {
		return filter, err
	}
	if filter.DateFrom, err = queryTime(c, "date_from", false); err != nil {
		return filter, err
	}
	if filter.DateTo, err = queryTime(c, "date_to", true); err != nil {
		return filter, err
	}
	return filter, nil
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, dto.NewOrderResponse(o))
	}
	return resp
}

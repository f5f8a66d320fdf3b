package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/server/http/dto"
)

// PaymentHandler serves gateway notifications and the payment ledger.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Webhook handles POST /api/webhooks/wompi. Every verified event is
// acknowledged with 200 so the gateway stops retrying, whatever it did to the order.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, validationError("unreadable body"))
		return
	}
	result, err := h.facade.HandleGatewayEvent(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WebhookResponse{
		Received:      true,
		Event:         result.Event,
		TransactionID: result.TransactionID,
		OrderID:       result.OrderID,
		OrderStatus:   string(result.OrderStatus),
		Outcome:       string(result.Outcome),
	})
}

// OrderPayments handles GET /api/orders/:id/payments.
func (h *PaymentHandler) OrderPayments(c *gin.Context) {
	id, err := paramUUID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	payments, err := h.facade.OrderPayments(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponses(payments))
}

// List handles GET /api/admin/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	filter, err := paymentFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	payments, total, err := h.facade.Payments(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(toPaymentResponses(payments), total, page))
}

// Get handles GET /api/admin/payments/:transaction_id.
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.facade.Payment(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaymentResponse(*payment))
}

// Statistics handles GET /api/admin/payments/stats.
func (h *PaymentHandler) Statistics(c *gin.Context) {
	stats, err := h.facade.PaymentStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaymentStatisticsResponse(*stats))
}

func paymentFilter(c *gin.Context) (model.PaymentFilter, error) {
	var filter model.PaymentFilter
	var err error
	if raw := c.Query("order_id"); raw != "" {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return filter, validationError("invalid order_id")
		}
		filter.OrderID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParsePaymentStatus(raw)
		if !ok {
			return filter, validationError("unknown status %q", raw)
		}
		filter.Status = &status
	}
	if raw := c.Query("method"); raw != "" {
		method, ok := model.ParsePaymentMethod(raw)
		if !ok {
			return filter, validationError("unknown method %q", raw)
		}
		filter.Method = &method
	}
	if filter.DateFrom, err = queryTime(c, "date_from", false); err != nil {
		return filter, err
	}
	if filter.DateTo, err = queryTime(c, "date_to", true); err != nil {
		return filter, err
	}
	return filter, nil
}

func toPaymentResponses(payments []model.Payment) []dto.PaymentResponse {
	resp := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, dto.NewPaymentResponse(p))
	}
	return resp
}

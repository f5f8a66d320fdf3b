package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

// CheckoutItem is one cart line.
type CheckoutItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequest describes the cart submitted at checkout.
type CheckoutRequest struct {
	Items       []CheckoutItem `json:"items" binding:"required"`
	RedirectURL string         `json:"redirect_url"`
}

// Lines converts the request into domain cart lines.
func (r CheckoutRequest) Lines() []model.CartLine {
	lines := make([]model.CartLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, model.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// CheckoutResponse tells the customer where to pay.
type CheckoutResponse struct {
	OrderID          uuid.UUID `json:"order_id"`
	GatewayReference string    `json:"gateway_reference"`
	RedirectURL      string    `json:"redirect_url"`
	TotalAmount      string    `json:"total_amount"`
}

// NewCheckoutResponse converts a checkout result.
func NewCheckoutResponse(r model.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		OrderID:          r.OrderID,
		GatewayReference: r.GatewayReference,
		RedirectURL:      r.RedirectURL,
		TotalAmount:      r.TotalAmount.StringFixed(2),
	}
}

// OrderItemResponse is one order line with its purchase-time price.
type OrderItemResponse struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
	Subtotal        string `json:"subtotal"`
}

// OrderResponse is the detailed view of an order.
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	UserID           int64               `json:"user_id"`
	TotalAmount      string              `json:"total_amount"`
	Status           string              `json:"status"`
	GatewayReference *string             `json:"gateway_reference"`
	RedemptionCode   string              `json:"redemption_code,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	RedeemedAt       *time.Time          `json:"redeemed_at"`
	Items            []OrderItemResponse `json:"items"`
}

// NewOrderResponse converts a domain order. The redemption code is only
// disclosed once the order is paid.
func NewOrderResponse(o model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase.StringFixed(2),
			Subtotal:        item.Subtotal().StringFixed(2),
		})
	}
	resp := OrderResponse{
		ID:               o.ID,
		UserID:           o.UserID,
		TotalAmount:      o.TotalAmount.StringFixed(2),
		Status:           string(o.Status),
		GatewayReference: o.GatewayReference,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		RedeemedAt:       o.RedeemedAt,
		Items:            items,
	}
	if o.Status == model.OrderStatusPaid || o.Status == model.OrderStatusRedeemed {
		resp.RedemptionCode = o.RedemptionCode
	}
	return resp
}

// RedeemRequest carries the code presented at the counter.
type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemResponse confirms a redemption.
type RedeemResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Order      OrderResponse `json:"order"`
	RedeemedAt *time.Time    `json:"redeemed_at"`
}

// OrderStatisticsResponse aggregates order counts and revenue.
type OrderStatisticsResponse struct {
	TotalOrders       int    `json:"total_orders"`
	TotalRevenue      string `json:"total_revenue"`
	PendingOrders     int    `json:"pending_orders"`
	PaidOrders        int    `json:"paid_orders"`
	RedeemedOrders    int    `json:"redeemed_orders"`
	FailedOrders      int    `json:"failed_orders"`
	CancelledOrders   int    `json:"cancelled_orders"`
	AverageOrderValue string `json:"average_order_value"`
}

// NewOrderStatisticsResponse converts domain statistics.
func NewOrderStatisticsResponse(s model.OrderStatistics) OrderStatisticsResponse {
	return OrderStatisticsResponse{
		TotalOrders:       s.TotalOrders,
		TotalRevenue:      s.TotalRevenue.StringFixed(2),
		PendingOrders:     s.PendingOrders,
		PaidOrders:        s.PaidOrders,
		RedeemedOrders:    s.RedeemedOrders,
		FailedOrders:      s.FailedOrders,
		CancelledOrders:   s.CancelledOrders,
		AverageOrderValue: s.AverageOrderValue.StringFixed(2),
	}
}

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus describes the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusFailed    OrderStatus = "FAILED"
	OrderStatusRedeemed  OrderStatus = "REDEEMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusFailed, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusRedeemed},
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions leave s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// ParseOrderStatus converts external input into a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed, OrderStatusRedeemed, OrderStatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// Order is a customer purchase. TotalAmount is fixed at creation.
type Order struct {
	ID               uuid.UUID
	UserID           int64
	TotalAmount      decimal.Decimal
	Status           OrderStatus
	GatewayReference *string
	RedemptionCode   string
	CreatedAt        time.Time
	RedeemedAt       *time.Time
	UpdatedAt        time.Time
	Items            []OrderItem
}

// Reference returns the bound gateway reference or an empty string.
func (o Order) Reference() string {
	if o.GatewayReference == nil {
		return ""
	}
	return *o.GatewayReference
}

// AmountInCents converts the total into minor currency units.
func (o Order) AmountInCents() int64 {
	return o.TotalAmount.Shift(2).Round(0).IntPart()
}

// OrderItem is a line of an order with the unit price captured at purchase time.
type OrderItem struct {
	ID              int64
	OrderID         uuid.UUID
	ProductID       int64
	ProductName     string
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

// Subtotal returns quantity times snapshot price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems totals the subtotals of items rounded to cents.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

// CartLine is a requested product quantity at checkout.
type CartLine struct {
	ProductID int64
	Quantity  int
}

// CheckoutResult is returned to the customer after a successful checkout.
type CheckoutResult struct {
	OrderID          uuid.UUID
	GatewayReference string
	RedirectURL      string
	TotalAmount      decimal.Decimal
}

// OrderFilter narrows administrative order listings.
type OrderFilter struct {
	UserID     *int64
	Status     *OrderStatus
	IsRedeemed *bool
	DateFrom   *time.Time
	DateTo     *time.Time
}

// OrderStatistics aggregates order counts and revenue. Revenue counts paid and redeemed orders.
type OrderStatistics struct {
	TotalOrders       int
	TotalRevenue      decimal.Decimal
	PendingOrders     int
	PaidOrders        int
	RedeemedOrders    int
	FailedOrders      int
	CancelledOrders   int
	AverageOrderValue decimal.Decimal
}

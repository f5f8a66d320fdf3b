package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names order lifecycle notifications.
type EventType string

const (
	EventOrderCreated   EventType = "order.created"
	EventOrderPaid      EventType = "order.paid"
	EventOrderFailed    EventType = "order.failed"
	EventOrderRedeemed  EventType = "order.redeemed"
	EventOrderCancelled EventType = "order.cancelled"
)

// EventForStatus returns the event emitted when an order enters status.
func EventForStatus(status OrderStatus) EventType {
	switch status {
	case OrderStatusPaid:
		return EventOrderPaid
	case OrderStatusFailed:
		return EventOrderFailed
	case OrderStatusRedeemed:
		return EventOrderRedeemed
	case OrderStatusCancelled:
		return EventOrderCancelled
	default:
		return EventOrderCreated
	}
}

// OrderEvent is published after a committed order change.
type OrderEvent struct {
	Type        EventType       `json:"type"`
	OrderID     uuid.UUID       `json:"order_id"`
	UserID      int64           `json:"user_id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Reference   string          `json:"reference,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// NewOrderEvent builds an event describing the current state of order.
func NewOrderEvent(order Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:        EventForStatus(order.Status),
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Reference:   order.Reference(),
		OccurredAt:  at,
	}
}

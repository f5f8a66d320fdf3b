package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

// PaymentResponse is a payment ledger row. The raw gateway payload is not exposed.
type PaymentResponse struct {
	ID                    int64      `json:"id"`
	OrderID               uuid.UUID  `json:"order_id"`
	ExternalTransactionID string     `json:"external_transaction_id"`
	ExternalReference     string     `json:"external_reference"`
	Amount                string     `json:"amount"`
	Currency              string     `json:"currency"`
	Status                string     `json:"status"`
	PaymentMethod         *string    `json:"payment_method"`
	PaymentMethodType     string     `json:"payment_method_type,omitempty"`
	CardLastFour          *string    `json:"card_last_four,omitempty"`
	CardBrand             *string    `json:"card_brand,omitempty"`
	ErrorMessage          *string    `json:"error_message,omitempty"`
	TransactionDate       *time.Time `json:"transaction_date"`
	CreatedAt             time.Time  `json:"created_at"`
}

// NewPaymentResponse converts a domain payment.
func NewPaymentResponse(p model.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                    p.ID,
		OrderID:               p.OrderID,
		ExternalTransactionID: p.ExternalTransactionID,
		ExternalReference:     p.ExternalReference,
		Amount:                p.Amount.StringFixed(2),
		Currency:              p.Currency,
		Status:                string(p.Status),
		PaymentMethodType:     p.MethodType,
		CardLastFour:          p.CardLastFour,
		CardBrand:             p.CardBrand,
		ErrorMessage:          p.ErrorMessage,
		TransactionDate:       p.TransactionDate,
		CreatedAt:             p.CreatedAt,
	}
	if p.Method != nil {
		method := string(*p.Method)
		resp.PaymentMethod = &method
	}
	return resp
}

// PaymentStatisticsResponse aggregates gateway transactions.
type PaymentStatisticsResponse struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalAmount       string  `json:"total_amount"`
	Approved          int     `json:"approved"`
	Declined          int     `json:"declined"`
	Pending           int     `json:"pending"`
	ApprovalRate      float64 `json:"approval_rate"`
}

// NewPaymentStatisticsResponse converts domain statistics.
func NewPaymentStatisticsResponse(s model.PaymentStatistics) PaymentStatisticsResponse {
	return PaymentStatisticsResponse{
		TotalTransactions: s.TotalTransactions,
		TotalAmount:       s.TotalAmount.StringFixed(2),
		Approved:          s.Approved,
		Declined:          s.Declined,
		Pending:           s.Pending,
		ApprovalRate:      s.ApprovalRate,
	}
}

// WebhookResponse acknowledges a gateway notification.
type WebhookResponse struct {
	Received      bool       `json:"received"`
	Event         string     `json:"event,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	OrderStatus   string     `json:"order_status,omitempty"`
	Outcome       string     `json:"outcome"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus mirrors the gateway transaction status.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusDeclined PaymentStatus = "DECLINED"
	PaymentStatusVoided   PaymentStatus = "VOIDED"
	PaymentStatusError    PaymentStatus = "ERROR"
)

// ParsePaymentStatus converts a gateway status string.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	status := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusDeclined, PaymentStatusVoided, PaymentStatusError:
		return status, true
	default:
		return "", false
	}
}

// OrderOutcome maps a payment status to the order status it drives.
// The second value is false when the payment status leaves the order untouched.
func (s PaymentStatus) OrderOutcome() (OrderStatus, bool) {
	switch s {
	case PaymentStatusApproved:
		return OrderStatusPaid, true
	case PaymentStatusDeclined, PaymentStatusError, PaymentStatusVoided:
		return OrderStatusFailed, true
	default:
		return "", false
	}
}

// PaymentMethod is the normalized payment instrument family.
type PaymentMethod string

const (
	PaymentMethodCard                PaymentMethod = "CARD"
	PaymentMethodNequi               PaymentMethod = "NEQUI"
	PaymentMethodPSE                 PaymentMethod = "PSE"
	PaymentMethodBancolombiaTransfer PaymentMethod = "BANCOLOMBIA_TRANSFER"
	PaymentMethodBancolombiaCollect  PaymentMethod = "BANCOLOMBIA_COLLECT"
)

// ParsePaymentMethod returns the known method for raw, if any.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(raw)))
	switch method {
	case PaymentMethodCard, PaymentMethodNequi, PaymentMethodPSE, PaymentMethodBancolombiaTransfer, PaymentMethodBancolombiaCollect:
		return method, true
	default:
		return "", false
	}
}

// Payment is a gateway transaction recorded against an order.
// ExternalTransactionID is unique across all payments.
type Payment struct {
	ID                    int64
	OrderID               uuid.UUID
	ExternalTransactionID string
	ExternalReference     string
	Amount                decimal.Decimal
	Currency              string
	Status                PaymentStatus
	Method                *PaymentMethod
	MethodType            string
	CardLastFour          *string
	CardBrand             *string
	RawPayload            string
	ErrorMessage          *string
	TransactionDate       *time.Time
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	OrderID  *uuid.UUID
	Status   *PaymentStatus
	Method   *PaymentMethod
	DateFrom *time.Time
	DateTo   *time.Time
}

// PaymentStatistics aggregates gateway transactions. TotalAmount sums approved payments.
type PaymentStatistics struct {
	TotalTransactions int
	TotalAmount       decimal.Decimal
	Approved          int
	Declined          int
	Pending           int
	ApprovalRate      float64
}

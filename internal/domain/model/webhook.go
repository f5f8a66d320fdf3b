package model

import "github.com/google/uuid"

// WebhookOutcome tells what a gateway notification did to the order.
type WebhookOutcome string

const (
	OutcomeIgnored        WebhookOutcome = "ignored"
	OutcomeUnknownOrder   WebhookOutcome = "unknown_order"
	OutcomeRecorded       WebhookOutcome = "recorded"
	OutcomeApplied        WebhookOutcome = "applied"
	OutcomeDuplicate      WebhookOutcome = "duplicate"
	OutcomeRejected       WebhookOutcome = "transition_rejected"
	OutcomeAmountMismatch WebhookOutcome = "amount_mismatch"
)

// WebhookResult summarizes a processed gateway notification.
type WebhookResult struct {
	Event         string
	TransactionID string
	OrderID       *uuid.UUID
	PaymentID     int64
	Created       bool
	OrderStatus   OrderStatus
	Outcome       WebhookOutcome
}

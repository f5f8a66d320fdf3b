package test

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/fotovariedades/storefront/internal/adapter/wompi"
	"github.com/fotovariedades/storefront/internal/domain/model"
)

// GatewayStub records payment link requests and answers with sequential links.
type GatewayStub struct {
	CreateFn func(context.Context, wompi.LinkRequest) (*wompi.PaymentLink, error)

	mu       sync.Mutex
	requests []wompi.LinkRequest
}

// CreatePaymentLink delegates to CreateFn or returns link_<n>.
func (g *GatewayStub) CreatePaymentLink(ctx context.Context, req wompi.LinkRequest) (*wompi.PaymentLink, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	n := len(g.requests)
	g.mu.Unlock()

	if g.CreateFn != nil {
		return g.CreateFn(ctx, req)
	}
	id := fmt.Sprintf("link_%d", n)
	return &wompi.PaymentLink{ID: id, URL: "https://checkout.test/l/" + id}, nil
}

// Requests returns the link requests received so far.
func (g *GatewayStub) Requests() []wompi.LinkRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]wompi.LinkRequest(nil), g.requests...)
}

// PublisherRecorder collects published order events.
type PublisherRecorder struct {
	mu     sync.Mutex
	events []model.OrderEvent
}

// Publish stores event.
func (p *PublisherRecorder) Publish(event model.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns the recorded events in publish order.
func (p *PublisherRecorder) Events() []model.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.OrderEvent(nil), p.events...)
}

// WompiEvent describes a transaction.updated notification for tests.
type WompiEvent struct {
	Event         string
	TransactionID string
	Reference     string
	PaymentLinkID string
	Status        string
	StatusMessage string
	AmountInCents int64
	Timestamp     int64
}

// Payload encodes the event and signs it with secret the way the gateway does.
func (e WompiEvent) Payload(secret string) []byte {
	if e.Event == "" {
		e.Event = wompi.EventTransactionUpdated
	}
	if e.Timestamp == 0 {
		e.Timestamp = 1705318220
	}
	values := []string{e.TransactionID, e.Status, strconv.FormatInt(e.AmountInCents, 10)}
	body := map[string]any{
		"event": e.Event,
		"data": map[string]any{
			"transaction": map[string]any{
				"id":                  e.TransactionID,
				"amount_in_cents":     e.AmountInCents,
				"reference":           e.Reference,
				"customer_email":      "ana@example.com",
				"currency":            "COP",
				"payment_method_type": "CARD",
				"payment_method": map[string]any{
					"type":  "CARD",
					"extra": map[string]any{"last_four": "4242", "brand": "VISA"},
				},
				"status":          e.Status,
				"status_message":  e.StatusMessage,
				"created_at":      "2024-01-15T10:30:00.000Z",
				"finalized_at":    "2024-01-15T10:30:15.000Z",
				"payment_link_id": e.PaymentLinkID,
			},
		},
		"environment": "test",
		"signature": map[string]any{
			"properties": []string{"transaction.id", "transaction.status", "transaction.amount_in_cents"},
			"checksum":   wompi.Checksum(values, e.Timestamp, secret),
		},
		"timestamp": e.Timestamp,
		"sent_at":   "2024-01-15T10:30:20.000Z",
	}
	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return raw
}

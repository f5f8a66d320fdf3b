package wompi

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
)

// EventTransactionUpdated is the only event that drives order status.
const EventTransactionUpdated = "transaction.updated"

// ErrMalformedEvent marks payloads that cannot be decoded into an event.
var ErrMalformedEvent = fmt.Errorf("%w: malformed gateway event", domainErrors.ErrValidation)

// Transaction is the gateway transaction carried by an event.
type Transaction struct {
	ID                string        `json:"id"`
	AmountInCents     int64         `json:"amount_in_cents"`
	Reference         string        `json:"reference"`
	CustomerEmail     string        `json:"customer_email"`
	Currency          string        `json:"currency"`
	PaymentMethodType string        `json:"payment_method_type"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	Status            string        `json:"status"`
	StatusMessage     string        `json:"status_message"`
	CreatedAt         string        `json:"created_at"`
	FinalizedAt       string        `json:"finalized_at"`
	PaymentLinkID     string        `json:"payment_link_id"`
	RedirectURL       string        `json:"redirect_url"`
}

// PaymentMethod holds instrument details; Extra carries masked card data.
type PaymentMethod struct {
	Type         string         `json:"type"`
	Extra        map[string]any `json:"extra"`
	Installments int            `json:"installments"`
}

// Signature is the checksum block sent with every event.
type Signature struct {
	Properties []string `json:"properties"`
	Checksum   string   `json:"checksum"`
}

// Event is a decoded webhook notification.
type Event struct {
	Event       string    `json:"event"`
	Environment string    `json:"environment"`
	Signature   Signature `json:"signature"`
	Timestamp   int64     `json:"timestamp"`
	SentAt      string    `json:"sent_at"`
	Transaction Transaction

	data map[string]any
}

type envelope struct {
	Event       string          `json:"event"`
	Data        json.RawMessage `json:"data"`
	Environment string          `json:"environment"`
	Signature   Signature       `json:"signature"`
	Timestamp   int64           `json:"timestamp"`
	SentAt      string          `json:"sent_at"`
}

// ParseEvent decodes a raw webhook body.
func ParseEvent(raw []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.Event == "" || len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: missing event or data", ErrMalformedEvent)
	}

	var data map[string]any
	dec := json.NewDecoder(bytes.NewReader(env.Data))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	var body struct {
		Transaction *Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if body.Transaction == nil || body.Transaction.ID == "" {
		return nil, fmt.Errorf("%w: missing transaction", ErrMalformedEvent)
	}

	return &Event{
		Event:       env.Event,
		Environment: env.Environment,
		Signature:   env.Signature,
		Timestamp:   env.Timestamp,
		SentAt:      env.SentAt,
		Transaction: *body.Transaction,
		data:        data,
	}, nil
}

// PropertyValues resolves the signed properties, dotted paths into the event data.
func (e *Event) PropertyValues() ([]string, error) {
	values := make([]string, 0, len(e.Signature.Properties))
	for _, prop := range e.Signature.Properties {
		v, ok := lookup(e.data, prop)
		if !ok {
			return nil, fmt.Errorf("signed property %q not present", prop)
		}
		values = append(values, v)
	}
	return values, nil
}

func lookup(data map[string]any, dotted string) (string, bool) {
	var current any = data
	for _, part := range strings.Split(dotted, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		if current, ok = m[part]; !ok {
			return "", false
		}
	}
	switch v := current.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

// Checksum computes the hex SHA-256 of the concatenated values, timestamp and secret.
func Checksum(values []string, timestamp int64, secret string) string {
	h := sha256.New()
	for _, v := range values {
		h.Write([]byte(v))
	}
	h.Write([]byte(strconv.FormatInt(timestamp, 10)))
	h.Write([]byte(secret))
	return hex.EncodeToString(h.Sum(nil))
}

// Verifier checks event checksums against the events secret.
type Verifier struct {
	secret string
}

// NewVerifier creates a verifier bound to secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify returns ErrInvalidSignature unless the event checksum matches.
func (v *Verifier) Verify(e *Event) error {
	if e.Signature.Checksum == "" || len(e.Signature.Properties) == 0 {
		return fmt.Errorf("%w: missing signature", domainErrors.ErrInvalidSignature)
	}
	values, err := e.PropertyValues()
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrInvalidSignature, err)
	}
	expected := Checksum(values, e.Timestamp, v.secret)
	got := strings.ToLower(e.Signature.Checksum)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
		return fmt.Errorf("%w: checksum mismatch", domainErrors.ErrInvalidSignature)
	}
	return nil
}

// LookupReference returns the key binding the transaction to an order:
// the payment link id when present, the transaction reference otherwise.
func (t Transaction) LookupReference() string {
	if t.PaymentLinkID != "" {
		return t.PaymentLinkID
	}
	return t.Reference
}

// Amount converts minor units into a decimal amount.
func (t Transaction) Amount() decimal.Decimal {
	return decimal.New(t.AmountInCents, -2)
}

// KnownStatus reports whether the gateway status is one the ledger understands.
func (t Transaction) KnownStatus() bool {
	_, ok := model.ParsePaymentStatus(t.Status)
	return ok
}

// ToPayment maps the transaction onto a ledger row for orderID with raw stored verbatim.
// An unrecognised status is recorded as ERROR with a message naming it.
func (t Transaction) ToPayment(orderID uuid.UUID, raw []byte) model.Payment {
	status, known := model.ParsePaymentStatus(t.Status)
	if !known {
		status = model.PaymentStatusError
	}

	methodType := t.PaymentMethodType
	if methodType == "" {
		methodType = t.PaymentMethod.Type
	}

	payment := model.Payment{
		OrderID:               orderID,
		ExternalTransactionID: t.ID,
		ExternalReference:     t.Reference,
		Amount:                t.Amount(),
		Currency:              strings.ToUpper(t.Currency),
		Status:                status,
		MethodType:            methodType,
		RawPayload:            string(raw),
	}
	if payment.Currency == "" {
		payment.Currency = "COP"
	}
	if method, ok := model.ParsePaymentMethod(methodType); ok {
		payment.Method = &method
	}
	if v := extraString(t.PaymentMethod.Extra, "last_four"); v != "" {
		payment.CardLastFour = &v
	}
	if v := extraString(t.PaymentMethod.Extra, "brand"); v != "" {
		payment.CardBrand = &v
	}
	switch {
	case !known:
		msg := fmt.Sprintf("unknown transaction status %q", t.Status)
		payment.ErrorMessage = &msg
	case status != model.PaymentStatusApproved && t.StatusMessage != "":
		msg := t.StatusMessage
		payment.ErrorMessage = &msg
	}
	if at, err := parseTime(t.FinalizedAt, t.CreatedAt); err == nil {
		payment.TransactionDate = &at
	}
	return payment
}

func extraString(extra map[string]any, key string) string {
	if v, ok := extra[key].(string); ok {
		return v
	}
	return ""
}

func parseTime(candidates ...string) (time.Time, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, c); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("no valid timestamp")
}

package wompi

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// StubGateway issues local links without contacting Wompi. Used when no private key is configured.
type StubGateway struct {
	CheckoutURL string
}

func (s *StubGateway) CreatePaymentLink(ctx context.Context, req LinkRequest) (*PaymentLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := "stub_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &PaymentLink{ID: id, URL: strings.TrimRight(s.CheckoutURL, "/") + "/l/" + id}, nil
}

package wompi

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/fotovariedades/storefront/internal/config"
)

// Module exposes the payment gateway and the event verifier to fx graph.
var Module = fx.Provide(newGateway, newVerifier)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) (Gateway, error) {
	if p.Config.WompiPrivateKey == "" {
		p.Logger.Warn("wompi private key not configured, using stub gateway")
		return &StubGateway{CheckoutURL: p.Config.WompiCheckoutURL}, nil
	}
	return NewHTTPClient(p.Config.WompiAPIURL, p.Config.WompiCheckoutURL, p.Config.WompiPrivateKey, p.Config.GatewayTimeout, p.Logger)
}

func newVerifier(cfg *config.Config) *Verifier {
	return NewVerifier(cfg.WompiEventsSecret)
}

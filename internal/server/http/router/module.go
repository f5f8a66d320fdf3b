package router

import (
	"go.uber.org/fx"

	"github.com/fotovariedades/storefront/internal/server/ws"
)

// Module registers HTTP router and staff feed hub construction for fx runtime.
var Module = fx.Provide(Setup, ws.NewHub)

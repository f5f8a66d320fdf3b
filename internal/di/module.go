package di

import (
	"go.uber.org/fx"

	"github.com/fotovariedades/storefront/internal/adapter/wompi"
	"github.com/fotovariedades/storefront/internal/app"
	"github.com/fotovariedades/storefront/internal/config"
	"github.com/fotovariedades/storefront/internal/logger"
	"github.com/fotovariedades/storefront/internal/pkg/auth"
	"github.com/fotovariedades/storefront/internal/server/http/router"
	"github.com/fotovariedades/storefront/internal/storage/postgres"
	"github.com/fotovariedades/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		wompi.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

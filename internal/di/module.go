package di

import (
	"go.uber.org/fx"

	"github.com/pcbuilder/storefront/internal/adapter/vnpay"
	"github.com/pcbuilder/storefront/internal/app"
	"github.com/pcbuilder/storefront/internal/config"
	"github.com/pcbuilder/storefront/internal/logger"
	"github.com/pcbuilder/storefront/internal/pkg/auth"
	"github.com/pcbuilder/storefront/internal/server/http/handlers"
	"github.com/pcbuilder/storefront/internal/server/http/router"
	"github.com/pcbuilder/storefront/internal/storage/postgres"
	"github.com/pcbuilder/storefront/internal/usecase"
)

// Module assembles the storefront graph. Extra options are applied last so
// tests can replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		vnpay.Module,
		usecase.Module,
		fx.Provide(func(client vnpay.Client) usecase.PaymentGateway { return client }),
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

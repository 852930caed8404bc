package vnpay

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/pcbuilder/storefront/internal/config"
)

// Module exposes payment functions client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PaymentFunctionsURL, p.Config.PaymentFunctionsKey, p.Logger)
}

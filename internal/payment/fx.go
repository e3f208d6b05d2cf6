package payment

import (
	"github.com/getmenuly/menuly/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(service.NewGateway),
	fx.Provide(service.New),
)

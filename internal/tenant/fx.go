package tenant

import (
	"github.com/getmenuly/menuly/internal/tenant/repository"
	"github.com/getmenuly/menuly/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

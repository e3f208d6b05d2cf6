package dish

import (
	"github.com/getmenuly/menuly/internal/dish/repository"
	"github.com/getmenuly/menuly/internal/dish/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dish.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

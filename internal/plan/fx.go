package plan

import (
	"github.com/getmenuly/menuly/internal/plan/repository"
	"github.com/getmenuly/menuly/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

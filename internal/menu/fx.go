package menu

import (
	"github.com/getmenuly/menuly/internal/menu/repository"
	"github.com/getmenuly/menuly/internal/menu/service"
	"go.uber.org/fx"
)

var Module = fx.Module("menu.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

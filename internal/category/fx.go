package category

import (
	"github.com/getmenuly/menuly/internal/category/repository"
	"github.com/getmenuly/menuly/internal/category/service"
	"go.uber.org/fx"
)

var Module = fx.Module("category.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package notification

import (
	"github.com/getmenuly/menuly/internal/notification/repository"
	"github.com/getmenuly/menuly/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

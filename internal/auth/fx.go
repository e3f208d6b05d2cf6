package auth

import (
	"go.uber.org/fx"

	"github.com/getmenuly/menuly/internal/auth/repository"
	"github.com/getmenuly/menuly/internal/auth/service"
	"github.com/getmenuly/menuly/internal/auth/session"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(session.NewManager),
	fx.Provide(service.New),
)

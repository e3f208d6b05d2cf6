package media

import (
	"github.com/getmenuly/menuly/internal/media/s3"
	"github.com/getmenuly/menuly/internal/media/service"
	"go.uber.org/fx"
)

var Module = fx.Module("media.service",
	fx.Provide(s3.New),
	fx.Provide(service.New),
)

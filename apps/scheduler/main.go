package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/clock"
	"github.com/getmenuly/menuly/internal/config"
	"github.com/getmenuly/menuly/internal/notification"
	"github.com/getmenuly/menuly/internal/observability"
	"github.com/getmenuly/menuly/internal/scheduler"
	"github.com/getmenuly/menuly/internal/subscription"
	"github.com/getmenuly/menuly/internal/tenant"
	"github.com/getmenuly/menuly/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Domain services required by the sweep
		scheduler.Module,
		subscription.Module,
		tenant.Module,
		notification.Module,

		// No server module!
		fx.Invoke(scheduler.Start),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/getmenuly/menuly/internal/clock"
	"github.com/getmenuly/menuly/internal/config"
	"github.com/getmenuly/menuly/internal/migration"
	"github.com/getmenuly/menuly/internal/observability"
	"github.com/getmenuly/menuly/internal/server"
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
		migration.Module,

		server.Module,
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

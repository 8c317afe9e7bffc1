package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gestoria/internal/clock"
	"github.com/smallbiznis/gestoria/internal/config"
	"github.com/smallbiznis/gestoria/internal/logger"
	"github.com/smallbiznis/gestoria/internal/migration"
	"github.com/smallbiznis/gestoria/internal/observability"
	"github.com/smallbiznis/gestoria/internal/server"
	"github.com/smallbiznis/gestoria/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Functional domains and HTTP surface
		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		panic(err)
	}
	return node
}

//go:build wireinject
// +build wireinject

package main

import (
	"Lumen/config"
	"Lumen/dao"
	"Lumen/dao/cache"
	"Lumen/handler"
	"Lumen/pkg/client"
	"Lumen/pkg/database"
	"Lumen/pkg/rocketmq"
	"Lumen/pkg/server"
	"Lumen/process"
	"Lumen/service"

	"github.com/google/wire"
)

func InitApp(cfg *config.Config) (*App, error) {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		config.ProvideOssConfig,
		config.ProvideRocketMQConfig,
		config.ProvideLedgerConfig,
		rocketmq.NewSimpleConsumer,

		dao.ProviderSet,
		cache.ProviderSet,
		service.ProviderSet,
		process.ProviderSet,

		wire.Struct(new(handler.Point), "*"),
		wire.Struct(new(handler.Streak), "*"),
		wire.Struct(new(handler.Leaderboard), "*"),

		server.NewGinEngine,
		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}

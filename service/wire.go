package service

import (
	"Lumen/pkg/keylock"
	"Lumen/pkg/timeutil"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	timeutil.SystemClock,
	keylock.New,

	wire.Struct(new(PointService), "*"),
	wire.Bind(new(IPointService), new(*PointService)),

	wire.Struct(new(StreakService), "*"),
	wire.Bind(new(IStreakService), new(*StreakService)),

	NewOssArtifactPublisher,
	NewArtifactPublishers,
	wire.Struct(new(LeaderboardService), "*"),
	wire.Bind(new(ILeaderboardService), new(*LeaderboardService)),
)

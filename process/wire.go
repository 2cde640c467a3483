package process

import "github.com/google/wire"

var ProviderSet = wire.NewSet(
	wire.Struct(new(LeaderboardJob), "*"),
	wire.Struct(new(EventSubscribe), "*"),
	wire.Struct(new(SubServers), "*"),
	NewServer,
)

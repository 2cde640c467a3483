package config

import (
	"time"
)

const (
	defaultLeaderboardInterval = 10 * time.Minute
	defaultArtifactPrefix      = "leaderboard"
)

// Ledger 积分/连续打卡/排行榜相关配置
type Ledger struct {
	// Timezone 计算“今天/昨天”以及排行榜窗口时使用的时区，空值表示服务器本地时区
	Timezone            string        `json:"timezone" yaml:"timezone"`
	LeaderboardInterval time.Duration `json:"leaderboard_interval" yaml:"leaderboard_interval"`
	ServiceToken        string        `json:"service_token" yaml:"service_token"`
	ArtifactPrefix      string        `json:"artifact_prefix" yaml:"artifact_prefix"`
}

func (l *Ledger) applyDefaults() {
	if l.LeaderboardInterval <= 0 {
		l.LeaderboardInterval = defaultLeaderboardInterval
	}
	if l.ArtifactPrefix == "" {
		l.ArtifactPrefix = defaultArtifactPrefix
	}
}

// Location 解析配置的时区，解析失败时退回本地时区
func (l *Ledger) Location() *time.Location {
	if l == nil || l.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func ProvideLedgerConfig(cfg *Config) *Ledger {
	return cfg.Ledger
}

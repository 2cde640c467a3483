package cache

import (
	"Lumen/config"
	"Lumen/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 静态榜单过期时间，正常情况下定时任务会在过期前刷新
const leaderboardExpireAt = 48 * time.Hour

// LeaderboardStorage 排行榜快照的只读副本，读接口优先走这里
type LeaderboardStorage struct {
	redis  *redis.Client
	prefix string
}

func NewLeaderboardStorage(rds *redis.Client, conf *config.Ledger) *LeaderboardStorage {
	return &LeaderboardStorage{redis: rds, prefix: conf.ArtifactPrefix}
}

// Put 覆盖写入某个窗口的榜单 JSON
func (l *LeaderboardStorage) Put(ctx context.Context, window models.WindowType, body []byte) error {
	return l.redis.Set(ctx, l.name(window), body, leaderboardExpireAt).Err()
}

// Get 不存在时返回 (nil, nil)
func (l *LeaderboardStorage) Get(ctx context.Context, window models.WindowType) ([]byte, error) {
	b, err := l.redis.Get(ctx, l.name(window)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

func (l *LeaderboardStorage) Name() string {
	return "redis"
}

// lumen:leaderboard:WEEKLY
func (l *LeaderboardStorage) name(window models.WindowType) string {
	return fmt.Sprintf("lumen:%s:%s", l.prefix, window)
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	eventDoneExpireAt = 7 * 24 * time.Hour
	eventLockExpireAt = 2 * time.Minute
)

// EventDedupStorage MQ 消息去重：done + lock 两段式
type EventDedupStorage struct {
	redis *redis.Client
}

func NewEventDedupStorage(rds *redis.Client) *EventDedupStorage {
	return &EventDedupStorage{rds}
}

// IsDone 事件是否已经成功处理过
func (e *EventDedupStorage) IsDone(ctx context.Context, eventID string) (bool, error) {
	n, err := e.redis.Exists(ctx, e.doneKey(eventID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// TryLock 抢占处理锁，抢不到说明其他消费者正在处理
func (e *EventDedupStorage) TryLock(ctx context.Context, eventID string) (bool, error) {
	return e.redis.SetNX(ctx, e.lockKey(eventID), 1, eventLockExpireAt).Result()
}

func (e *EventDedupStorage) Unlock(ctx context.Context, eventID string) {
	_ = e.redis.Del(ctx, e.lockKey(eventID)).Err()
}

func (e *EventDedupStorage) MarkDone(ctx context.Context, eventID string) error {
	return e.redis.Set(ctx, e.doneKey(eventID), 1, eventDoneExpireAt).Err()
}

func (e *EventDedupStorage) doneKey(eventID string) string {
	return fmt.Sprintf("lumen:event:done:%s", eventID)
}

func (e *EventDedupStorage) lockKey(eventID string) string {
	return fmt.Sprintf("lumen:event:lock:%s", eventID)
}

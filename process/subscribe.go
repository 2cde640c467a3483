package process

import (
	"Lumen/dao/cache"
	"Lumen/models"
	"Lumen/pkg/log"
	"Lumen/service"
	"Lumen/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// errMalformedEvent 消息本身有问题，重投也不会成功，记日志后 Ack 掉
var errMalformedEvent = errors.New("malformed engagement event")

type EventSubscribe struct {
	Dedup         *cache.EventDedupStorage
	PointService  service.IPointService
	StreakService service.IStreakService
}

func (e *EventSubscribe) Init() error {
	return nil
}

// Setup 消费循环由 Server 统一驱动
func (e *EventSubscribe) Setup(ctx context.Context) error {
	return nil
}

// handle 返回 error 表示需要 MQ 重投
func (e *EventSubscribe) handle(ctx context.Context, body []byte) error {
	var event types.EngagementEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.L.Error("unmarshal engagement event", zap.Error(err), zap.ByteString("body", body))
		return nil
	}
	if event.EventID == "" {
		log.L.Error("engagement event without id", zap.String("kind", event.Kind))
		return nil
	}

	// 幂等去重：done + lock 两段式
	done, err := e.Dedup.IsDone(ctx, event.EventID)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	ok, err := e.Dedup.TryLock(ctx, event.EventID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("event %s is being processed", event.EventID)
	}
	defer e.Dedup.Unlock(context.Background(), event.EventID)

	if err := e.dispatch(ctx, &event); err != nil {
		if errors.Is(err, errMalformedEvent) {
			log.L.Error("drop engagement event", zap.String("event_id", event.EventID), zap.Error(err))
			return e.Dedup.MarkDone(ctx, event.EventID)
		}
		return err
	}

	return e.Dedup.MarkDone(ctx, event.EventID)
}

func (e *EventSubscribe) dispatch(ctx context.Context, event *types.EngagementEvent) error {
	switch event.Kind {
	case types.EventKindAward, types.EventKindDeduct:
		kind, err := models.ParseActionKind(event.Action)
		if err != nil {
			return fmt.Errorf("%w: %w", errMalformedEvent, err)
		}

		// event_id 同时作为积分流水的幂等键
		if event.Kind == types.EventKindAward {
			_, err = e.PointService.Award(ctx, event.UserID, kind, event.EventID)
		} else {
			_, err = e.PointService.Deduct(ctx, event.UserID, kind, event.EventID)
		}
		switch {
		case err == nil, errors.Is(err, service.ErrDuplicateEvent):
			return nil
		case errors.Is(err, service.ErrInvalidInput):
			return fmt.Errorf("%w: %w", errMalformedEvent, err)
		}
		return err

	case types.EventKindDailyLog:
		if event.Payload.Title == "" {
			return fmt.Errorf("%w: daily log without title", errMalformedEvent)
		}
		_, err := e.StreakService.RecordDailyLog(ctx, event.UserID, event.OccurredAt, event.Payload)
		if errors.Is(err, service.ErrInvalidInput) {
			return fmt.Errorf("%w: %w", errMalformedEvent, err)
		}
		return err
	}
	return fmt.Errorf("%w: unknown kind %q", errMalformedEvent, event.Kind)
}

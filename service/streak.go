package service

import (
	"Lumen/config"
	"Lumen/dao"
	"Lumen/models"
	"Lumen/pkg/keylock"
	"Lumen/pkg/log"
	"Lumen/pkg/snowflake"
	"Lumen/pkg/timeutil"
	"Lumen/types"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 跨实例并发写同一用户时，乐观锁冲突的最大重试次数
const maxStreakSaveAttempts = 3

type StreakService struct {
	Tx           *dao.Tx
	StreakDAO    *dao.Streak
	DailyLogDAO  *dao.DailyLog
	PointService IPointService
	Locker       *keylock.Locker
	Ledger       *config.Ledger
	Clock        timeutil.Clock
}

var _ IStreakService = (*StreakService)(nil)

type IStreakService interface {
	RecordDailyLog(ctx context.Context, userID string, occurredAt time.Time, payload types.DailyLogPayload) (*types.StreakResult, error)
	DeleteLogEvent(ctx context.Context, userID string, logID int64) (*types.StreakResult, error)
	Recalculate(ctx context.Context, userID string) (*types.StreakResult, error)

	GetStreak(ctx context.Context, userID string) (*types.StreakInfo, error)
	ListLogs(ctx context.Context, userID string, cursor int64, limit int) (*types.ListDailyLogs, error)
}

type recordOutcome struct {
	state    *models.StreakState
	logID    int64
	previous int
	sameDay  bool
	backdate bool
}

// RecordDailyLog 记录一次打卡并推进连续天数。
// 同一用户的调用在进程内串行，跨进程靠 version 乐观锁重试。
// 里程碑奖励在状态提交之后发放，失败只记日志。
func (s *StreakService) RecordDailyLog(ctx context.Context, userID string, occurredAt time.Time, payload types.DailyLogPayload) (*types.StreakResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}
	loc := s.Ledger.Location()
	day := timeutil.StartOfDay(occurredAt, loc)

	unlock := s.Locker.Lock(userID)
	defer unlock()

	var (
		out *recordOutcome
		err error
	)
	for attempt := 0; attempt < maxStreakSaveAttempts; attempt++ {
		out, err = s.recordOnce(ctx, userID, occurredAt, day, payload)
		if !errors.Is(err, errVersionConflict) {
			break
		}
		log.L.Warn("streak state conflict, retrying", zap.String("user_id", userID), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, err
	}

	result := s.toResult(out.state)
	result.LogID = out.logID
	result.SameDay = out.sameDay
	if out.sameDay || out.backdate {
		return result, nil
	}

	for _, m := range milestonesCrossed(out.previous, out.state.CurrentStreak) {
		result.MilestoneHit = m
		result.MilestoneAwarded = s.awardMilestone(ctx, userID, m, day)
	}
	return result, nil
}

func (s *StreakService) recordOnce(ctx context.Context, userID string, occurredAt, day time.Time, payload types.DailyLogPayload) (*recordOutcome, error) {
	loc := s.Ledger.Location()
	out := &recordOutcome{}

	err := s.Tx.Run(ctx, func(ctx context.Context) error {
		state, err := s.StreakDAO.GetByUserID(ctx, userID)
		if err != nil {
			return persistErr("get streak state", err)
		}
		if state == nil {
			state = &models.StreakState{UserID: userID}
		}

		entry := &models.DailyLog{
			ID:              snowflake.GenID(),
			UserID:          userID,
			Title:           payload.Title,
			Description:     payload.Description,
			DurationMinutes: payload.DurationMinutes,
			OccurredAt:      occurredAt,
		}
		if err := s.DailyLogDAO.Insert(ctx, entry); err != nil {
			return persistErr("insert daily log", err)
		}
		out.logID = entry.ID

		fold := foldOf(state, loc)
		out.previous = fold.Current

		if !fold.LastDay.IsZero() && day.Before(fold.LastDay) {
			// 补卡：增量规则不适用，按完整历史重算，不发里程碑
			rebuilt, err := s.rebuild(ctx, userID, loc)
			if err != nil {
				return err
			}
			rebuilt.applyTo(state)
			out.backdate = true
		} else {
			next, sameDay := step(fold, day)
			next.applyTo(state)
			out.sameDay = sameDay
		}

		if err := s.save(ctx, state); err != nil {
			return err
		}
		out.state = state
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// awardMilestone 幂等键带上日期：同一天重试不会重复发放，断签后重新达到可以再次获得
func (s *StreakService) awardMilestone(ctx context.Context, userID string, milestone int, day time.Time) bool {
	kind, ok := models.StreakMilestoneKind(milestone)
	if !ok {
		return false
	}
	key := fmt.Sprintf("streak:%s:%d:%s", userID, milestone, day.Format(time.DateOnly))

	_, err := s.PointService.Award(ctx, userID, kind, key)
	if err == nil {
		return true
	}
	if errors.Is(err, ErrDuplicateEvent) {
		return true
	}
	milestoneAwardFailuresTotal.Inc()
	log.L.Error("streak milestone award failed",
		zap.String("user_id", userID),
		zap.Int("milestone", milestone),
		zap.Error(fmt.Errorf("%w: %w", ErrMilestoneAward, err)),
	)
	return false
}

// DeleteLogEvent 删除用户自己的一条打卡并重算状态
func (s *StreakService) DeleteLogEvent(ctx context.Context, userID string, logID int64) (*types.StreakResult, error) {
	unlock := s.Locker.Lock(userID)
	defer unlock()

	// 冲突回滚时删除一并回滚，重试会再删一次
	return s.recalculateLocked(ctx, userID, func(ctx context.Context) error {
		n, err := s.DailyLogDAO.DeleteByOwner(ctx, userID, logID)
		if err != nil {
			return persistErr("delete daily log", err)
		}
		if n == 0 {
			return ErrLogNotFound
		}
		return nil
	})
}

// Recalculate 按完整历史重建连续打卡状态，用于删除后修复，不会补发里程碑
func (s *StreakService) Recalculate(ctx context.Context, userID string) (*types.StreakResult, error) {
	unlock := s.Locker.Lock(userID)
	defer unlock()
	return s.recalculateLocked(ctx, userID, nil)
}

// recalculateLocked before 在同一事务内、重算之前执行
func (s *StreakService) recalculateLocked(ctx context.Context, userID string, before func(ctx context.Context) error) (*types.StreakResult, error) {
	loc := s.Ledger.Location()

	var (
		state *models.StreakState
		err   error
	)
	for attempt := 0; attempt < maxStreakSaveAttempts; attempt++ {
		err = s.Tx.Run(ctx, func(ctx context.Context) error {
			if before != nil {
				if err := before(ctx); err != nil {
					return err
				}
			}

			current, err := s.StreakDAO.GetByUserID(ctx, userID)
			if err != nil {
				return persistErr("get streak state", err)
			}
			fold, err := s.rebuild(ctx, userID, loc)
			if err != nil {
				return err
			}
			if current == nil {
				current = &models.StreakState{UserID: userID}
				if fold.TotalLogs == 0 {
					// 没有历史也没有状态，不需要落库
					state = current
					return nil
				}
			}
			fold.applyTo(current)
			if err := s.save(ctx, current); err != nil {
				return err
			}
			state = current
			return nil
		})
		if !errors.Is(err, errVersionConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return s.toResult(state), nil
}

func (s *StreakService) rebuild(ctx context.Context, userID string, loc *time.Location) (streakFold, error) {
	logs, err := s.DailyLogDAO.ListOccurredAt(ctx, userID)
	if err != nil {
		return streakFold{}, persistErr("list daily logs", err)
	}
	times := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		times = append(times, l.OccurredAt)
	}
	return recompute(times, loc), nil
}

// save 版本冲突或并发开户时返回 errVersionConflict，由外层整体重试
func (s *StreakService) save(ctx context.Context, state *models.StreakState) error {
	ok, err := s.StreakDAO.Save(ctx, state)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errVersionConflict
		}
		return persistErr("save streak state", err)
	}
	if !ok {
		return errVersionConflict
	}
	return nil
}

func (s *StreakService) GetStreak(ctx context.Context, userID string) (*types.StreakInfo, error) {
	state, err := s.StreakDAO.GetByUserID(ctx, userID)
	if err != nil {
		return nil, persistErr("get streak state", err)
	}
	if state == nil {
		state = &models.StreakState{UserID: userID}
	}

	info := &types.StreakInfo{StreakResult: *s.toResult(state)}
	if state.LastLoggedDate != nil {
		loc := s.Ledger.Location()
		today := timeutil.StartOfDay(s.now(), loc)
		last := timeutil.StartOfDay(*state.LastLoggedDate, loc)
		gap := timeutil.DaysBetween(last, today)
		info.Active = gap == 0 || gap == 1
	}
	return info, nil
}

func (s *StreakService) ListLogs(ctx context.Context, userID string, cursor int64, limit int) (*types.ListDailyLogs, error) {
	logs, err := s.DailyLogDAO.ListPage(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, persistErr("list daily logs", err)
	}

	resp := &types.ListDailyLogs{Logs: make([]types.DailyLogItem, 0, len(logs))}
	if len(logs) > limit {
		resp.HasMore = true
		logs = logs[:limit]
		resp.NextCursor = logs[len(logs)-1].ID
	}

	loc := s.Ledger.Location()
	for _, l := range logs {
		resp.Logs = append(resp.Logs, types.DailyLogItem{
			ID:              l.ID,
			Title:           l.Title,
			Description:     l.Description,
			DurationMinutes: l.DurationMinutes,
			OccurredAt:      l.OccurredAt.In(loc).Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (s *StreakService) toResult(state *models.StreakState) *types.StreakResult {
	result := &types.StreakResult{
		UserID:        state.UserID,
		CurrentStreak: state.CurrentStreak,
		LongestStreak: state.LongestStreak,
		TotalLogs:     state.TotalLogs,
	}
	if state.LastLoggedDate != nil {
		loc := s.Ledger.Location()
		result.LastLoggedDate = timeutil.StartOfDay(*state.LastLoggedDate, loc).Format(time.DateOnly)
	}
	return result
}

func (s *StreakService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

package dao

import (
	"Lumen/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type Streak struct {
	Repo[models.StreakState]
}

func NewStreak(db *gorm.DB) *Streak {
	return &Streak{Repo: NewRepo[models.StreakState](db)}
}

// GetByUserID 不存在时返回 (nil, nil)
func (s *Streak) GetByUserID(ctx context.Context, userID string) (*models.StreakState, error) {
	return s.FindByWhere(ctx, "user_id = ?", userID)
}

// Save 新状态直接插入；已有状态按 version 做条件更新，版本不一致返回 false
func (s *Streak) Save(ctx context.Context, state *models.StreakState) (bool, error) {
	now := time.Now()
	var lastLogged *time.Time
	if state.LastLoggedDate != nil {
		t := state.LastLoggedDate.UTC()
		lastLogged = &t
	}

	if state.ID == 0 {
		state.LastLoggedDate = lastLogged
		state.Version = 1
		if err := s.Conn(ctx).Create(state).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	result := s.Conn(ctx).Model(&models.StreakState{}).
		Where("id = ? AND version = ?", state.ID, state.Version).
		Updates(map[string]interface{}{
			"current_streak":   state.CurrentStreak,
			"longest_streak":   state.LongestStreak,
			"last_logged_date": lastLogged,
			"total_logs":       state.TotalLogs,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	state.Version++
	return true, nil
}

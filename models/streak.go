package models

import "time"

// StreakState 用户连续打卡状态，只由打卡服务修改
type StreakState struct {
	ID             uint64     `gorm:"primaryKey;column:id"`
	UserID         string     `gorm:"column:user_id;size:64;uniqueIndex"`
	CurrentStreak  int        `gorm:"column:current_streak;not null;default:0"`
	LongestStreak  int        `gorm:"column:longest_streak;not null;default:0"`
	LastLoggedDate *time.Time `gorm:"column:last_logged_date"`
	TotalLogs      int64      `gorm:"column:total_logs;not null;default:0"`
	Version        int64      `gorm:"column:version;not null;default:0"` // 乐观锁
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (StreakState) TableName() string {
	return "streak_states"
}

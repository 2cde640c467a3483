package models

import "time"

// DailyLog 用户的每日学习记录，用户可删除
type DailyLog struct {
	ID              int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	UserID          string    `gorm:"column:user_id;size:64;not null;index:idx_daily_logs_user_occurred,priority:1"`
	Title           string    `gorm:"column:title;size:255"`
	Description     string    `gorm:"column:description;type:text"`
	DurationMinutes int       `gorm:"column:duration_minutes;not null;default:0"`
	OccurredAt      time.Time `gorm:"column:occurred_at;not null;index:idx_daily_logs_user_occurred,priority:2"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DailyLog) TableName() string {
	return "daily_logs"
}

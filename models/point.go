package models

import "time"

// PointsAccount 用户积分账户，首次加/扣分时创建
type PointsAccount struct {
	ID            uint64    `gorm:"primaryKey;column:id"`
	UserID        string    `gorm:"column:user_id;size:64;uniqueIndex"`
	Points        int64     `gorm:"column:points;not null;default:0"`
	TotalEarned   int64     `gorm:"column:total_earned;not null;default:0"`
	TotalDeducted int64     `gorm:"column:total_deducted;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (PointsAccount) TableName() string {
	return "points_accounts"
}

// PointAction 积分流水，只追加不修改
type PointAction struct {
	ID           int64      `gorm:"primaryKey;autoIncrement:false;column:id"`
	UserID       string     `gorm:"column:user_id;size:64;not null;index:idx_point_actions_user_occurred,priority:1;uniqueIndex:uk_point_actions_user_event,priority:1"`
	ActionType   ActionKind `gorm:"column:action_type;size:64;not null"`
	PointsEarned int64      `gorm:"column:points_earned;not null"` // 变动数额（正负）
	BalanceAfter int64      `gorm:"column:balance_after;not null"` // 变动后余额
	EventKey     *string    `gorm:"column:event_key;size:191;uniqueIndex:uk_point_actions_user_event,priority:2"`
	OccurredAt   time.Time  `gorm:"column:occurred_at;not null;index:idx_point_actions_user_occurred,priority:2;index:idx_point_actions_occurred"`
}

func (PointAction) TableName() string {
	return "point_actions"
}

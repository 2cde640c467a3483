package types

import "time"

// DailyLogPayload 打卡内容，积分/连续打卡逻辑不关心
type DailyLogPayload struct {
	Title           string `json:"title" binding:"required,max=255"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" binding:"gte=0"`
}

type RecordDailyLogReq struct {
	DailyLogPayload
	OccurredAt *time.Time `json:"occurred_at"` // 为空时取服务器当前时间
}

// InternalRecordDailyLogReq 协作方代用户打卡
type InternalRecordDailyLogReq struct {
	RecordDailyLogReq
	UserID string `json:"user_id" binding:"required,max=64"`
}

// StreakResult 打卡/重算后的连续打卡状态
type StreakResult struct {
	UserID           string `json:"user_id"`
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	TotalLogs        int64  `json:"total_logs"`
	LastLoggedDate   string `json:"last_logged_date"` // 2006-01-02，未打过卡为空
	LogID            int64  `json:"log_id,string,omitempty"`
	SameDay          bool   `json:"same_day,omitempty"`
	MilestoneHit     int    `json:"milestone_hit,omitempty"`
	MilestoneAwarded bool   `json:"milestone_awarded,omitempty"`
}

type StreakInfo struct {
	StreakResult
	Active bool `json:"active"` // 今天或昨天打过卡，断签前仍算有效
}

type DailyLogItem struct {
	ID              int64  `json:"id,string"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	OccurredAt      string `json:"occurred_at"`
}

type ListDailyLogs struct {
	Logs       []DailyLogItem `json:"logs"`
	NextCursor int64          `json:"next_cursor,string"`
	HasMore    bool           `json:"has_more"`
}

type ListDailyLogsReq struct {
	Cursor int64 `form:"cursor"`
	Limit  int   `form:"limit,default=20" binding:"gte=1,lte=50"`
}

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type WindowType string

const (
	WindowDaily   WindowType = "DAILY"
	WindowWeekly  WindowType = "WEEKLY"
	WindowMonthly WindowType = "MONTHLY"
)

var ErrInvalidWindow = errors.New("invalid leaderboard window")

var Windows = []WindowType{WindowDaily, WindowWeekly, WindowMonthly}

// ParseWindowType 大小写不敏感
func ParseWindowType(s string) (WindowType, error) {
	w := WindowType(strings.ToUpper(strings.TrimSpace(s)))
	switch w {
	case WindowDaily, WindowWeekly, WindowMonthly:
		return w, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}

func (w WindowType) Lower() string {
	return strings.ToLower(string(w))
}

type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
}

// LeaderboardSnapshot 每个窗口只保留一份，重新生成时整体覆盖
type LeaderboardSnapshot struct {
	ID          uint64                                `gorm:"primaryKey;column:id"`
	WindowType  WindowType                            `gorm:"column:window_type;size:16;uniqueIndex"`
	WindowStart time.Time                             `gorm:"column:window_start"`
	WindowEnd   time.Time                             `gorm:"column:window_end"`
	GeneratedAt time.Time                             `gorm:"column:generated_at"`
	Entries     datatypes.JSONSlice[LeaderboardEntry] `gorm:"column:entries"`
}

func (LeaderboardSnapshot) TableName() string {
	return "leaderboard_snapshots"
}

package dao

import (
	"Lumen/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Leaderboard struct {
	Repo[models.LeaderboardSnapshot]
}

func NewLeaderboard(db *gorm.DB) *Leaderboard {
	return &Leaderboard{Repo: NewRepo[models.LeaderboardSnapshot](db)}
}

// Upsert 按窗口类型整体覆盖
func (l *Leaderboard) Upsert(ctx context.Context, snapshot *models.LeaderboardSnapshot) error {
	snapshot.WindowStart = snapshot.WindowStart.UTC()
	snapshot.WindowEnd = snapshot.WindowEnd.UTC()
	snapshot.GeneratedAt = snapshot.GeneratedAt.UTC()
	return l.Conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "window_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"window_start", "window_end", "generated_at", "entries"}),
	}).Create(snapshot).Error
}

// GetByWindow 不存在时返回 (nil, nil)
func (l *Leaderboard) GetByWindow(ctx context.Context, window models.WindowType) (*models.LeaderboardSnapshot, error) {
	return l.FindByWhere(ctx, "window_type = ?", window)
}

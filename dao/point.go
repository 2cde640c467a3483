package dao

import (
	"Lumen/models"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Point struct {
	Repo[models.PointsAccount]
}

func NewPoint(db *gorm.DB) *Point {
	return &Point{
		Repo: NewRepo[models.PointsAccount](db),
	}
}

// ApplyDelta 原子地调整余额，账户不存在时按 0 开户再调整；结果不会小于 0。
// 需要在事务中调用，返回调整后的账户。
func (p *Point) ApplyDelta(ctx context.Context, userID string, delta int64, now time.Time) (*models.PointsAccount, error) {
	var earned, deducted int64
	if delta >= 0 {
		earned = delta
	} else {
		deducted = -delta
	}

	account := &models.PointsAccount{
		UserID:        userID,
		Points:        earned,
		TotalEarned:   earned,
		TotalDeducted: deducted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// 冲突时在数据库侧做加减，避免并发下先读后写覆盖
	err := p.Conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points":         gorm.Expr("CASE WHEN points + ? < 0 THEN 0 ELSE points + ? END", delta, delta),
			"total_earned":   gorm.Expr("total_earned + ?", earned),
			"total_deducted": gorm.Expr("total_deducted + ?", deducted),
			"updated_at":     now,
		}),
	}).Create(account).Error
	if err != nil {
		return nil, err
	}

	return p.GetAccount(ctx, userID)
}

// GetAccount 不存在时返回 gorm.ErrRecordNotFound
func (p *Point) GetAccount(ctx context.Context, userID string) (*models.PointsAccount, error) {
	var account models.PointsAccount
	err := p.Conn(ctx).Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (p *Point) CreateAction(ctx context.Context, action *models.PointAction) error {
	action.OccurredAt = action.OccurredAt.UTC()
	return p.Conn(ctx).Create(action).Error
}

// ActionExists 幂等检查
func (p *Point) ActionExists(ctx context.Context, userID, eventKey string) (bool, error) {
	var count int64
	err := p.Conn(ctx).Model(&models.PointAction{}).
		Where("user_id = ? AND event_key = ?", userID, eventKey).
		Count(&count).Error
	return count > 0, err
}

// TopAccounts 总积分排行，同分按开户先后
func (p *Point) TopAccounts(ctx context.Context, limit int) ([]models.PointsAccount, error) {
	var accounts []models.PointsAccount
	err := p.Conn(ctx).
		Order("points DESC").Order("id ASC").
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}

// ListActions 分页筛选查询
func (p *Point) ListActions(ctx context.Context, userID string, direction string, cursor int64, limit int) ([]models.PointAction, error) {
	var actions []models.PointAction
	query := p.Conn(ctx).Where("user_id = ?", userID)

	switch direction {
	case "income":
		query = query.Where("points_earned > ?", 0)
	case "expense":
		query = query.Where("points_earned < ?", 0)
	}

	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	err := query.Order("id DESC").Limit(limit).Find(&actions).Error
	return actions, err
}

// SumInWindow 统计 [start, end) 内每个用户的积分变动，净值为 0 的用户不返回。
// 同分按该用户窗口内第一条流水的先后排序。
func (p *Point) SumInWindow(ctx context.Context, start, end time.Time) ([]models.LeaderboardEntry, error) {
	var rows []models.LeaderboardEntry
	err := p.Conn(ctx).Model(&models.PointAction{}).
		Select("user_id, SUM(points_earned) AS points").
		Where("occurred_at >= ? AND occurred_at < ?", start.UTC(), end.UTC()).
		Group("user_id").
		Having("SUM(points_earned) <> 0").
		Order("points DESC").Order("MIN(id) ASC").
		Scan(&rows).Error
	return rows, err
}

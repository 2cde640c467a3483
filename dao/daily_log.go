package dao

import (
	"Lumen/models"
	"context"

	"gorm.io/gorm"
)

type DailyLog struct {
	Repo[models.DailyLog]
}

func NewDailyLog(db *gorm.DB) *DailyLog {
	return &DailyLog{Repo: NewRepo[models.DailyLog](db)}
}

func (d *DailyLog) Insert(ctx context.Context, log *models.DailyLog) error {
	log.OccurredAt = log.OccurredAt.UTC()
	return d.Create(ctx, log)
}

// GetByID 不存在时返回 (nil, nil)
func (d *DailyLog) GetByID(ctx context.Context, id int64) (*models.DailyLog, error) {
	return d.FindByWhere(ctx, "id = ?", id)
}

// DeleteByOwner 只删除属于 userID 的记录，返回删除行数
func (d *DailyLog) DeleteByOwner(ctx context.Context, userID string, id int64) (int64, error) {
	result := d.Conn(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.DailyLog{})
	return result.RowsAffected, result.Error
}

// ListOccurredAt 用户全部打卡时间，按时间升序，用于重算
func (d *DailyLog) ListOccurredAt(ctx context.Context, userID string) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := d.Conn(ctx).
		Select("id", "occurred_at").
		Where("user_id = ?", userID).
		Order("occurred_at ASC").Order("id ASC").
		Find(&logs).Error
	return logs, err
}

// ListPage 游标分页，按 ID 倒序
func (d *DailyLog) ListPage(ctx context.Context, userID string, cursor int64, limit int) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	query := d.Conn(ctx).Where("user_id = ?", userID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

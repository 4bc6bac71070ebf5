/*
 * @module repository/minute_stat_repository
 * @description 分钟统计仓储实现，刷新时ON CONFLICT幂等覆盖
 * @architecture 数据访问层
 * @documentReference DESIGN-000.md
 * @stateFlow 分钟聚合刷新 -> Upsert -> minute_stats表 -> 曲线查询
 * @rules (lineID, ts)复合主键；重复刷新同一分钟覆盖而不报错
 * @dependencies gorm.io/gorm, gorm.io/gorm/clause
 */

package repository

import (
	"context"

	"line-monitor-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// minuteStatRepository 分钟统计仓储实现
type minuteStatRepository struct {
	db *gorm.DB
}

// NewMinuteStatRepository 创建分钟统计仓储
func NewMinuteStatRepository(db *gorm.DB) MinuteStatRepository {
	return &minuteStatRepository{db: db}
}

// Upsert 幂等写入分钟平均速度
func (r *minuteStatRepository) Upsert(ctx context.Context, stat *models.MinuteStat) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "line_id"}, {Name: "ts"}},
			DoUpdates: clause.AssignmentColumns([]string{"speed"}),
		}).
		Create(stat).Error
}

// FindRange 按产线查询[from, to]区间内的分钟统计，时间升序
func (r *minuteStatRepository) FindRange(ctx context.Context, lineID string, from, to int64) ([]*models.MinuteStat, error) {
	var stats []*models.MinuteStat
	err := r.db.WithContext(ctx).
		Where("line_id = ? AND ts >= ? AND ts <= ?", lineID, from, to).
		Order("ts ASC").
		Find(&stats).Error
	return stats, err
}

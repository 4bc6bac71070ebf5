/*
 * @module repository/state_log_repository
 * @description 状态变更日志仓储实现（只追加）
 * @architecture 数据访问层
 * @documentReference DESIGN-000.md
 * @stateFlow 状态切换 -> Append -> state_logs表 -> 区段计算查询
 * @rules 日志只追加不修改；区间查询按时间升序
 * @dependencies gorm.io/gorm
 */

package repository

import (
	"context"
	"errors"

	"line-monitor-service/models"

	"gorm.io/gorm"
)

// stateLogRepository 状态变更日志仓储实现
type stateLogRepository struct {
	db *gorm.DB
}

// NewStateLogRepository 创建状态日志仓储
func NewStateLogRepository(db *gorm.DB) StateLogRepository {
	return &stateLogRepository{db: db}
}

// Append 追加一条状态变更事件
func (r *stateLogRepository) Append(ctx context.Context, entry *models.StateLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindRange 按产线查询[from, to)区间内的事件，时间升序
func (r *stateLogRepository) FindRange(ctx context.Context, lineID string, from, to int64) ([]*models.StateLog, error) {
	var entries []*models.StateLog
	err := r.db.WithContext(ctx).
		Where("line_id = ? AND timestamp >= ? AND timestamp < ?", lineID, from, to).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// LatestBefore 查询某时刻之前最近的一条事件，不存在时返回(nil, nil)
func (r *stateLogRepository) LatestBefore(ctx context.Context, lineID string, before int64) (*models.StateLog, error) {
	var entry models.StateLog
	err := r.db.WithContext(ctx).
		Where("line_id = ? AND timestamp < ?", lineID, before).
		Order("timestamp DESC, id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

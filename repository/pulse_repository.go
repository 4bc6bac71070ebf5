/*
 * @module repository/pulse_repository
 * @description 原始脉冲存档仓储实现
 * @architecture 数据访问层
 * @documentReference DESIGN-000.md
 * @stateFlow 遥测上报 -> 存档写入 -> 定期清理
 * @rules 存档为尽力写入，失败不影响引擎；支持按时间清理
 * @dependencies gorm.io/gorm
 */

package repository

import (
	"context"

	"line-monitor-service/models"

	"gorm.io/gorm"
)

// pulseRepository 原始脉冲存档仓储实现
type pulseRepository struct {
	db *gorm.DB
}

// NewPulseRepository 创建脉冲存档仓储
func NewPulseRepository(db *gorm.DB) PulseRepository {
	return &pulseRepository{db: db}
}

// Create 写入一条原始脉冲包
func (r *pulseRepository) Create(ctx context.Context, record *models.PulseRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// DeleteOlderThan 清理指定时间之前的存档，返回删除行数
func (r *pulseRepository) DeleteOlderThan(ctx context.Context, before int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("timestamp < ?", before).
		Delete(&models.PulseRecord{})
	return result.RowsAffected, result.Error
}

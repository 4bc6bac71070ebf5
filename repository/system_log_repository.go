/*
 * @module repository/system_log_repository
 * @description 系统日志仓储实现
 * @architecture 数据访问层
 * @documentReference DESIGN-000.md
 * @stateFlow 日志写入 -> system_logs表 -> 查询/清理
 * @rules 查询按创建时间倒序；清理按时间硬删除
 * @dependencies gorm.io/gorm
 */

package repository

import (
	"context"
	"time"

	"line-monitor-service/models"

	"gorm.io/gorm"
)

// systemLogRepository 系统日志仓储实现
type systemLogRepository struct {
	db *gorm.DB
}

// NewSystemLogRepository 创建系统日志仓储
func NewSystemLogRepository(db *gorm.DB) SystemLogRepository {
	return &systemLogRepository{db: db}
}

// Create 写入一条系统日志
func (r *systemLogRepository) Create(ctx context.Context, log *models.SystemLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindRecent 查询最近的系统日志，level为空时不过滤级别
func (r *systemLogRepository) FindRecent(ctx context.Context, level models.LogLevel, limit int) ([]*models.SystemLog, error) {
	var logs []*models.SystemLog

	query := r.db.WithContext(ctx)
	if level != "" {
		query = query.Where("level = ?", level)
	}
	if limit <= 0 {
		limit = 100
	}

	err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// DeleteOlderThan 清理指定时间之前的日志，返回删除行数
func (r *systemLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", before).
		Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

/*
 * @module repository/line_status_repository
 * @description 产线状态快照仓储实现
 * @architecture 数据访问层
 * @documentReference DESIGN-000.md
 * @stateFlow Service层 -> LineStatusRepository -> GORM -> line_statuses表
 * @rules 产线快照按lineID唯一；动态产线首次上报时自动建行
 * @dependencies gorm.io/gorm
 */

package repository

import (
	"context"
	"errors"

	"line-monitor-service/models"

	"gorm.io/gorm"
)

// lineStatusRepository 产线状态快照仓储实现
type lineStatusRepository struct {
	baseRepository[models.LineStatus]
}

// NewLineStatusRepository 创建产线状态仓储
func NewLineStatusRepository(db *gorm.DB) LineStatusRepository {
	return &lineStatusRepository{
		baseRepository: newBaseRepository[models.LineStatus](db),
	}
}

// GetByLineID 按产线ID查询快照，不存在时返回(nil, nil)
func (r *lineStatusRepository) GetByLineID(ctx context.Context, lineID string) (*models.LineStatus, error) {
	var status models.LineStatus
	err := r.db.WithContext(ctx).Where("line_id = ?", lineID).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

// EnsureLine 确保产线快照行存在，返回现有或新建的快照
func (r *lineStatusRepository) EnsureLine(ctx context.Context, lineID string) (*models.LineStatus, error) {
	status := models.LineStatus{LineID: lineID}
	err := r.db.WithContext(ctx).
		Where("line_id = ?", lineID).
		FirstOrCreate(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// FindAll 返回全部产线快照，按产线ID排序
func (r *lineStatusRepository) FindAll(ctx context.Context) ([]*models.LineStatus, error) {
	var statuses []*models.LineStatus
	err := r.db.WithContext(ctx).Order("line_id ASC").Find(&statuses).Error
	return statuses, err
}

// UpdateFields 按产线ID更新部分字段
func (r *lineStatusRepository) UpdateFields(ctx context.Context, lineID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.LineStatus{}).
		Where("line_id = ?", lineID).
		Updates(fields).Error
}

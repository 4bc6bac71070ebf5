/*
 * @module repository/system_config_repository
 * @description 系统配置键值仓储实现
 * @architecture 数据访问层
 * @documentReference DESIGN-000.md
 * @stateFlow 设置保存 -> SetValue -> system_configs表 -> 启动GetValue
 * @rules 配置键唯一，写入存在即覆盖
 * @dependencies gorm.io/gorm, gorm.io/gorm/clause
 */

package repository

import (
	"context"
	"errors"

	"line-monitor-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// systemConfigRepository 系统配置仓储实现
type systemConfigRepository struct {
	db *gorm.DB
}

// NewSystemConfigRepository 创建系统配置仓储
func NewSystemConfigRepository(db *gorm.DB) SystemConfigRepository {
	return &systemConfigRepository{db: db}
}

// GetValue 读取配置值，不存在时返回("", nil)
func (r *systemConfigRepository) GetValue(ctx context.Context, key string) (string, error) {
	var config models.SystemConfig
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return config.Value, nil
}

// SetValue 写入配置值（存在即覆盖）
func (r *systemConfigRepository) SetValue(ctx context.Context, key, value string) error {
	config := models.SystemConfig{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&config).Error
}

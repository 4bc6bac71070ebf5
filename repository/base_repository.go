/*
 * @module repository/base_repository
 * @description 基础Repository实现，提供通用CRUD操作
 * @architecture 数据访问层
 * @documentReference DESIGN-000.md
 * @stateFlow Repository接口 -> 基础实现 -> GORM操作 -> 数据库
 * @rules 遵循GORM最佳实践，所有操作携带context
 * @dependencies gorm.io/gorm
 */

package repository

import (
	"context"

	"gorm.io/gorm"
)

// baseRepository 基础Repository实现
type baseRepository[T any] struct {
	db *gorm.DB
}

// newBaseRepository 创建基础Repository实例
func newBaseRepository[T any](db *gorm.DB) baseRepository[T] {
	return baseRepository[T]{db: db}
}

// Create 创建实体
func (r *baseRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// GetByID 根据ID获取实体
func (r *baseRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update 更新实体
func (r *baseRepository[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// Delete 硬删除实体
func (r *baseRepository[T]) Delete(ctx context.Context, id uint) error {
	var entity T
	return r.db.WithContext(ctx).Unscoped().Delete(&entity, id).Error
}

// CreateBatch 批量创建实体
func (r *baseRepository[T]) CreateBatch(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entities, 100).Error
}

// Find 根据条件查找实体
func (r *baseRepository[T]) Find(ctx context.Context, conditions map[string]interface{}) ([]*T, error) {
	var entities []*T

	query := r.db.WithContext(ctx)
	for key, value := range conditions {
		query = query.Where(key, value)
	}

	err := query.Find(&entities).Error
	return entities, err
}

// Count 计算满足条件的实体数量
func (r *baseRepository[T]) Count(ctx context.Context, conditions map[string]interface{}) (int64, error) {
	var count int64
	var entity T

	query := r.db.WithContext(ctx).Model(&entity)
	for key, value := range conditions {
		query = query.Where(key, value)
	}

	err := query.Count(&count).Error
	return count, err
}

// repositoryManager Repository管理器实现
type repositoryManager struct {
	db               *gorm.DB
	lineStatusRepo   LineStatusRepository
	stateLogRepo     StateLogRepository
	minuteStatRepo   MinuteStatRepository
	pulseRepo        PulseRepository
	systemConfigRepo SystemConfigRepository
	systemLogRepo    SystemLogRepository
}

// NewRepositoryManager 创建Repository管理器
func NewRepositoryManager(db *gorm.DB) RepositoryManager {
	return &repositoryManager{
		db:               db,
		lineStatusRepo:   NewLineStatusRepository(db),
		stateLogRepo:     NewStateLogRepository(db),
		minuteStatRepo:   NewMinuteStatRepository(db),
		pulseRepo:        NewPulseRepository(db),
		systemConfigRepo: NewSystemConfigRepository(db),
		systemLogRepo:    NewSystemLogRepository(db),
	}
}

// LineStatus 获取LineStatus Repository
func (rm *repositoryManager) LineStatus() LineStatusRepository {
	return rm.lineStatusRepo
}

// StateLog 获取StateLog Repository
func (rm *repositoryManager) StateLog() StateLogRepository {
	return rm.stateLogRepo
}

// MinuteStat 获取MinuteStat Repository
func (rm *repositoryManager) MinuteStat() MinuteStatRepository {
	return rm.minuteStatRepo
}

// Pulse 获取Pulse Repository
func (rm *repositoryManager) Pulse() PulseRepository {
	return rm.pulseRepo
}

// SystemConfig 获取SystemConfig Repository
func (rm *repositoryManager) SystemConfig() SystemConfigRepository {
	return rm.systemConfigRepo
}

// SystemLog 获取SystemLog Repository
func (rm *repositoryManager) SystemLog() SystemLogRepository {
	return rm.systemLogRepo
}

// Transaction 执行事务
func (rm *repositoryManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return rm.db.WithContext(ctx).Transaction(fn)
}

// DB 获取数据库连接
func (rm *repositoryManager) DB() *gorm.DB {
	return rm.db
}

/*
 * @module repository/interfaces
 * @description Repository接口定义，统一数据访问契约
 * @architecture 数据访问层
 * @documentReference DESIGN-000.md
 * @stateFlow Service层 -> Repository接口 -> GORM实现 -> PostgreSQL
 * @rules 所有数据访问通过Repository接口，Service层不直接操作gorm.DB
 * @dependencies gorm.io/gorm
 */

package repository

import (
	"context"
	"time"

	"line-monitor-service/models"

	"gorm.io/gorm"
)

// BaseRepository 通用CRUD接口
type BaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
	CreateBatch(ctx context.Context, entities []*T) error
	Find(ctx context.Context, conditions map[string]interface{}) ([]*T, error)
	Count(ctx context.Context, conditions map[string]interface{}) (int64, error)
}

// LineStatusRepository 产线状态快照仓储
type LineStatusRepository interface {
	BaseRepository[models.LineStatus]

	// GetByLineID 按产线ID查询快照，不存在时返回(nil, nil)
	GetByLineID(ctx context.Context, lineID string) (*models.LineStatus, error)
	// EnsureLine 确保产线快照行存在（首次上报的动态产线）
	EnsureLine(ctx context.Context, lineID string) (*models.LineStatus, error)
	// FindAll 返回全部产线快照，按产线ID排序
	FindAll(ctx context.Context) ([]*models.LineStatus, error)
	// UpdateFields 按产线ID更新部分字段
	UpdateFields(ctx context.Context, lineID string, fields map[string]interface{}) error
}

// StateLogRepository 状态变更日志仓储（只追加）
type StateLogRepository interface {
	// Append 追加一条状态变更事件
	Append(ctx context.Context, entry *models.StateLog) error
	// FindRange 按产线查询[from, to)区间内的事件，时间升序
	FindRange(ctx context.Context, lineID string, from, to int64) ([]*models.StateLog, error)
	// LatestBefore 查询某时刻之前最近的一条事件，不存在时返回(nil, nil)
	LatestBefore(ctx context.Context, lineID string, before int64) (*models.StateLog, error)
}

// MinuteStatRepository 分钟统计仓储
type MinuteStatRepository interface {
	// Upsert 幂等写入分钟平均速度（ON CONFLICT覆盖）
	Upsert(ctx context.Context, stat *models.MinuteStat) error
	// FindRange 按产线查询[from, to]区间内的分钟统计，时间升序
	FindRange(ctx context.Context, lineID string, from, to int64) ([]*models.MinuteStat, error)
}

// PulseRepository 原始脉冲存档仓储
type PulseRepository interface {
	// Create 写入一条原始脉冲包
	Create(ctx context.Context, record *models.PulseRecord) error
	// DeleteOlderThan 清理指定时间之前的存档，返回删除行数
	DeleteOlderThan(ctx context.Context, before int64) (int64, error)
}

// SystemConfigRepository 系统配置仓储
type SystemConfigRepository interface {
	// GetValue 读取配置值，不存在时返回("", nil)
	GetValue(ctx context.Context, key string) (string, error)
	// SetValue 写入配置值（存在即覆盖）
	SetValue(ctx context.Context, key, value string) error
}

// SystemLogRepository 系统日志仓储
type SystemLogRepository interface {
	Create(ctx context.Context, log *models.SystemLog) error
	FindRecent(ctx context.Context, level models.LogLevel, limit int) ([]*models.SystemLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// RepositoryManager Repository管理器，聚合全部仓储
type RepositoryManager interface {
	LineStatus() LineStatusRepository
	StateLog() StateLogRepository
	MinuteStat() MinuteStatRepository
	Pulse() PulseRepository
	SystemConfig() SystemConfigRepository
	SystemLog() SystemLogRepository

	// Transaction 在事务中执行
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	// DB 获取数据库连接
	DB() *gorm.DB
}

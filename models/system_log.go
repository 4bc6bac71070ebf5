/*
 * @module models/system_log
 * @description 系统日志数据模型，记录存储失败等内部事件
 * @architecture 数据模型层
 * @documentReference DESIGN-000.md
 * @stateFlow 日志创建 -> 存储 -> 查询 -> 清理
 * @rules 记录系统运行日志，支持按级别、来源、时间查询和自动清理
 * @dependencies gorm.io/gorm
 */

package models

import (
	"time"

	"gorm.io/gorm"
)

// LogLevel 日志级别
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// SystemLog 系统日志模型
type SystemLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     LogLevel       `gorm:"type:varchar(20);not null;index" json:"level"`       // 日志级别
	Source    string         `gorm:"type:varchar(100);not null;index" json:"source"`     // 日志来源（服务名称）
	SourceID  string         `gorm:"type:varchar(100);index" json:"source_id,omitempty"` // 来源ID（如产线ID）
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`            // 日志标题
	Message   string         `gorm:"type:text;not null" json:"message"`                  // 日志消息
	Details   string         `gorm:"type:text" json:"details,omitempty"`                 // 详细信息（如错误内容）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`                  // 软删除时间
}

// TableName 指定表名
func (SystemLog) TableName() string {
	return "system_logs"
}

// IsError 判断是否为错误级别日志
func (l *SystemLog) IsError() bool {
	return l.Level == LogLevelError
}

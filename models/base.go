/*
 * @module models/base
 * @description 基础模型定义，包含通用字段和产线状态枚举
 * @architecture 数据模型层
 * @documentReference DESIGN-000.md
 * @stateFlow 模型定义 -> 数据库映射 -> 业务逻辑
 * @rules 所有模型继承基础模型，包含创建时间、更新时间等通用字段
 * @dependencies gorm.io/gorm
 * @refs DESIGN-000.md
 */

package models

import (
	"fmt"
	"time"
)

// BaseModel 基础模型，包含通用字段
// @Description 基础模型，包含通用字段
type BaseModel struct {
	ID        uint       `json:"id" gorm:"primarykey" example:"1"`                       // 主键ID
	CreatedAt time.Time  `json:"created_at" example:"2025-01-26T12:00:00Z"`              // 创建时间
	UpdatedAt time.Time  `json:"updated_at" example:"2025-01-26T12:00:00Z"`              // 更新时间
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index" swaggerignore:"true"` // 软删除时间，swagger忽略
}

// SoftDelete 软删除接口
type SoftDelete interface {
	IsDeleted() bool
}

// IsDeleted 检查是否已软删除
func (m *BaseModel) IsDeleted() bool {
	return m.DeletedAt != nil
}

// LineState 产线运行状态枚举
type LineState string

const (
	LineStateRunning LineState = "running" // 运行中
	LineStateStopped LineState = "stopped" // 已停机
)

// IsRunning 是否为运行状态
func (s LineState) IsRunning() bool {
	return s == LineStateRunning
}

// LineStateOf 由布尔值构造产线状态
func LineStateOf(running bool) LineState {
	if running {
		return LineStateRunning
	}
	return LineStateStopped
}

// DefaultLineCount 默认挤出产线数量
const DefaultLineCount = 13

// DefaultLineRoster 返回默认产线ID列表（line1..line13）
func DefaultLineRoster() []string {
	roster := make([]string, 0, DefaultLineCount)
	for i := 1; i <= DefaultLineCount; i++ {
		roster = append(roster, fmt.Sprintf("line%d", i))
	}
	return roster
}

/*
 * @module models/system_config
 * @description 系统配置键值模型，持久化运行时参数JSON
 * @architecture 数据模型层
 * @documentReference DESIGN-000.md
 * @stateFlow 设置保存 -> 键值写入 -> 启动加载
 * @rules 配置键全局唯一；值为JSON文本
 * @dependencies gorm.io/gorm
 */

package models

// 配置键定义
const (
	ConfigKeyRuntimeSettings = "runtime_settings" // 运行时参数JSON
)

// SystemConfig 系统配置键值
type SystemConfig struct {
	BaseModel
	Key   string `json:"key" gorm:"type:varchar(100);uniqueIndex;not null"` // 配置键
	Value string `json:"value" gorm:"type:text"`                            // 配置值（JSON）
}

// TableName 指定表名
func (SystemConfig) TableName() string {
	return "system_configs"
}

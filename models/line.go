/*
 * @module models/line
 * @description 产线状态快照模型，记录每条产线的最新运行状态
 * @architecture 数据模型层
 * @documentReference DESIGN-000.md
 * @stateFlow 遥测上报 -> 状态更新 -> 快照持久化 -> 看板查询
 * @rules lineID全局唯一；lastPulseTime/lastPacketTime为Unix秒时间戳
 * @dependencies gorm.io/gorm
 */

package models

// LineStatus 产线状态快照
// @Description 产线状态快照，每条产线一行
type LineStatus struct {
	BaseModel
	LineID         string `json:"lineId" gorm:"type:varchar(32);uniqueIndex;not null" example:"line1"` // 产线ID
	IsRunning      bool   `json:"isRunning" gorm:"not null;default:false"`                             // 是否运行中
	LastPulseTime  int64  `json:"lastPulseTime" gorm:"not null;default:0"`                             // 最后一次非零脉冲时间（Unix秒）
	LastPacketTime int64  `json:"lastPacketTime" gorm:"not null;default:0"`                            // 最后一次收到数据包时间（Unix秒）
}

// TableName 指定表名
func (LineStatus) TableName() string {
	return "line_statuses"
}

// LineStatusView 看板状态视图（/status 响应项）
type LineStatusView struct {
	LineID         string  `json:"lineId"`         // 产线ID
	Name           string  `json:"name"`           // 显示名称
	Enabled        bool    `json:"enabled"`        // 看板是否展示
	IsRunning      bool    `json:"isRunning"`      // 是否运行中
	Speed          float64 `json:"speed"`          // 平滑速度（米/分钟）
	StateLabel     string  `json:"stateLabel"`     // 状态文案（运行中/已停机/无数据）
	Product        string  `json:"product"`        // 当前产品名称
	LastPulseTime  int64   `json:"lastPulseTime"`  // 最后脉冲时间
	LastPacketTime int64   `json:"lastPacketTime"` // 最后数据包时间
}

/*
 * @module models/telemetry
 * @description 遥测相关模型：上报请求、状态变更日志、原始脉冲存档、分钟统计
 * @architecture 数据模型层
 * @documentReference DESIGN-000.md
 * @stateFlow 设备上报 -> 校验 -> 引擎计算 -> 状态日志/分钟统计持久化
 * @rules 状态日志只追加不修改；分钟统计以(lineID, ts)为复合主键，刷新时幂等覆盖
 * @dependencies gorm.io/gorm
 */

package models

import "fmt"

// TelemetryRequest 遥测上报请求（POST /data）
// @Description 设备遥测上报：脉冲数、采样时长（毫秒）、可选时间戳
type TelemetryRequest struct {
	LineID   string `json:"lineId" example:"line1"`   // 产线ID，必填
	Pulses   *int64 `json:"pulses" example:"42"`      // 窗口内脉冲数，必填且>=0
	Duration *int64 `json:"duration" example:"1000"`  // 采样时长（毫秒），必填且>0
	Ts       *int64 `json:"ts" example:"1756400000"`  // 可选时间戳（秒或毫秒，服务端归一化）
}

// Validate 校验上报字段；设备固件不可信，所有字段都要检查
func (r *TelemetryRequest) Validate() error {
	if r.LineID == "" {
		return fmt.Errorf("lineId is required")
	}
	if r.Pulses == nil || *r.Pulses < 0 {
		return fmt.Errorf("pulses must be a non-negative integer")
	}
	if r.Duration == nil || *r.Duration <= 0 {
		return fmt.Errorf("duration must be a positive integer (ms)")
	}
	return nil
}

// TelemetryResponse 遥测上报响应
type TelemetryResponse struct {
	LineID       string  `json:"lineId"`       // 产线ID
	Speed        float64 `json:"speed"`        // 当前平滑速度（米/分钟）
	IsRunning    bool    `json:"isRunning"`    // 当前运行状态
	StateChanged bool    `json:"stateChanged"` // 本次上报是否触发状态切换
}

// StateLog 产线状态变更日志（只追加）
// @Description 状态切换事件，历史区段计算的唯一数据来源
type StateLog struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	LineID      string `json:"lineId" gorm:"type:varchar(32);not null;index:idx_state_logs_line_ts"` // 产线ID
	Timestamp   int64  `json:"timestamp" gorm:"not null;index:idx_state_logs_line_ts"`               // 切换时间（Unix秒）
	IsRunning   bool   `json:"isRunning" gorm:"not null"`                                            // 切换后的状态
	ProductName string `json:"productName" gorm:"type:varchar(128)"`                                 // 切换时的产品名称
}

// TableName 指定表名
func (StateLog) TableName() string {
	return "state_logs"
}

// PulseRecord 原始脉冲包存档（尽力写入，不影响引擎）
type PulseRecord struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	LineID    string `json:"lineId" gorm:"type:varchar(32);not null;index"` // 产线ID
	Pulses    int64  `json:"pulses" gorm:"not null"`                        // 脉冲数
	Duration  int64  `json:"duration" gorm:"not null"`                      // 采样时长（毫秒）
	Timestamp int64  `json:"timestamp" gorm:"not null;index"`               // 归一化时间戳（Unix秒）
}

// TableName 指定表名
func (PulseRecord) TableName() string {
	return "pulse_records"
}

// MinuteStat 分钟平均速度统计
// @Description 以(lineID, 分钟起点)为复合主键，刷新时ON CONFLICT覆盖
type MinuteStat struct {
	LineID string  `json:"lineId" gorm:"type:varchar(32);primaryKey"` // 产线ID
	Ts     int64   `json:"ts" gorm:"primaryKey"`                      // 分钟起点（Unix秒，60对齐）
	Speed  float64 `json:"speed" gorm:"not null"`                     // 该分钟平均速度
}

// TableName 指定表名
func (MinuteStat) TableName() string {
	return "minute_stats"
}

/*
 * @module models/runtime_settings
 * @description 运行时参数模型：滑动窗口、迟滞阈值、去抖延迟、离线超时等可热更新配置
 * @architecture 数据模型层
 * @documentReference DESIGN-000.md
 * @stateFlow 设置页保存 -> 校验 -> SystemConfig持久化 -> 引擎热更新
 * @rules V_START必须大于V_STOP；非法数值自动回退到默认值；graphHours只允许24/48
 * @dependencies encoding/json
 */

package models

import "fmt"

// 运行时参数默认值
const (
	DefaultWindowSec      = 60  // 滑动窗口长度（秒）
	DefaultDelayStartSec  = 30  // 启动确认延迟（秒）
	DefaultDelayStopSec   = 30  // 停机确认延迟（秒）
	DefaultOfflineTimeout = 60  // 离线判定超时（秒）
	DefaultGraphHours     = 24  // 看板曲线跨度（小时）
)

// 迟滞阈值默认值（米/分钟）
const (
	DefaultVStart = 0.5
	DefaultVStop  = 0.3
)

// RuntimeSettings 运行时参数，热更新后从下一次上报/巡检开始生效
// @Description 产线监控运行时参数
type RuntimeSettings struct {
	WindowSec      int               `json:"windowSec"`      // 滑动窗口长度（秒）
	VStart         float64           `json:"V_START"`        // 启动阈值（米/分钟）
	VStop          float64           `json:"V_STOP"`         // 停机阈值（米/分钟）
	DelayStart     int               `json:"delayStart"`     // 启动确认延迟（秒）
	DelayStop      int               `json:"delayStop"`      // 停机确认延迟（秒）
	OfflineTimeout int               `json:"offlineTimeout"` // 离线判定超时（秒）
	GraphHours     int               `json:"graphHours"`     // 看板曲线跨度（24或48小时）
	EnabledLines   []string          `json:"enabledLines"`   // 看板展示的产线ID
	LineNames      map[string]string `json:"lineNames"`      // 产线显示名称
	Products       map[string]string `json:"products"`       // 产线当前产品名称
	TelegramToken  string            `json:"telegramToken"`  // Telegram机器人token
	TelegramChatID string            `json:"telegramChatId"` // Telegram会话ID
}

// DefaultRuntimeSettings 返回默认运行时参数，默认全部产线在看板展示
func DefaultRuntimeSettings() RuntimeSettings {
	return RuntimeSettings{
		WindowSec:      DefaultWindowSec,
		VStart:         DefaultVStart,
		VStop:          DefaultVStop,
		DelayStart:     DefaultDelayStartSec,
		DelayStop:      DefaultDelayStopSec,
		OfflineTimeout: DefaultOfflineTimeout,
		GraphHours:     DefaultGraphHours,
		EnabledLines:   DefaultLineRoster(),
		LineNames:      map[string]string{},
		Products:       map[string]string{},
	}
}

// Validate 校验并修正运行时参数。
// 非法数值（非正的窗口/延迟/超时、越界的graphHours）回退到默认值；
// 阈值关系 V_START > V_STOP 无法自动修正，返回错误由调用方拒绝保存。
func (s *RuntimeSettings) Validate() error {
	if s.WindowSec <= 0 {
		s.WindowSec = DefaultWindowSec
	}
	if s.DelayStart < 0 {
		s.DelayStart = DefaultDelayStartSec
	}
	if s.DelayStop < 0 {
		s.DelayStop = DefaultDelayStopSec
	}
	if s.OfflineTimeout <= 0 {
		s.OfflineTimeout = DefaultOfflineTimeout
	}
	if s.GraphHours != 24 && s.GraphHours != 48 {
		s.GraphHours = DefaultGraphHours
	}
	if s.VStart <= 0 || s.VStop < 0 {
		return fmt.Errorf("thresholds must be positive: V_START=%v V_STOP=%v", s.VStart, s.VStop)
	}
	if s.VStart <= s.VStop {
		return fmt.Errorf("V_START (%v) must be greater than V_STOP (%v)", s.VStart, s.VStop)
	}
	if s.EnabledLines == nil {
		s.EnabledLines = DefaultLineRoster()
	}
	if s.LineNames == nil {
		s.LineNames = map[string]string{}
	}
	if s.Products == nil {
		s.Products = map[string]string{}
	}
	return nil
}

// DisplayName 返回产线显示名称，未配置时回退为产线ID
func (s *RuntimeSettings) DisplayName(lineID string) string {
	if name, ok := s.LineNames[lineID]; ok && name != "" {
		return name
	}
	return lineID
}

// Product 返回产线当前产品名称，未配置时为空
func (s *RuntimeSettings) Product(lineID string) string {
	return s.Products[lineID]
}

// IsLineEnabled 产线是否在看板展示。enabledLines仅影响展示，不影响采集
func (s *RuntimeSettings) IsLineEnabled(lineID string) bool {
	for _, id := range s.EnabledLines {
		if id == lineID {
			return true
		}
	}
	return false
}

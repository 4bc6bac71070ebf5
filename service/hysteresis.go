/*
 * @module service/hysteresis
 * @description 迟滞状态机：双阈值加确认延迟，消除临界速度附近的状态抖动
 * @architecture 业务逻辑层
 * @documentReference DESIGN-000.md
 * @stateFlow 速度评估 -> 候选状态计时 -> 延迟到期切换 / 中途回落取消
 * @rules V_START > V_STOP；两个确认计时互斥；状态切换后计时清零
 * @dependencies models
 */

package service

import "line-monitor-service/models"

// HoldKind 确认计时类别
type HoldKind int

const (
	HoldIdle         HoldKind = iota // 无候选切换
	HoldAwaitingRun                  // 等待确认启动
	HoldAwaitingStop                 // 等待确认停机
)

// HoldState 确认计时状态。两个方向的计时用同一个变量表示，天然互斥
type HoldState struct {
	Kind  HoldKind
	Since int64 // 计时起点（Unix秒），Kind为HoldIdle时无意义
}

// EvaluateLineState 纯函数迟滞评估。
// 运行中且速度<=V_STOP持续delayStop秒 -> 停机；
// 停机中且速度>=V_START持续delayStart秒 -> 启动；
// 速度中途离开阈值区间则取消计时；死区（V_STOP与V_START之间）维持原状态。
func EvaluateLineState(state models.LineState, hold HoldState, speed float64, ts int64, settings models.RuntimeSettings) (models.LineState, HoldState, bool) {
	if state.IsRunning() {
		if speed <= settings.VStop {
			if hold.Kind != HoldAwaitingStop {
				hold = HoldState{Kind: HoldAwaitingStop, Since: ts}
			}
			if ts-hold.Since >= int64(settings.DelayStop) {
				return models.LineStateStopped, HoldState{}, true
			}
			return state, hold, false
		}
		// 速度回升，取消停机计时
		return state, HoldState{}, false
	}

	if speed >= settings.VStart {
		if hold.Kind != HoldAwaitingRun {
			hold = HoldState{Kind: HoldAwaitingRun, Since: ts}
		}
		if ts-hold.Since >= int64(settings.DelayStart) {
			return models.LineStateRunning, HoldState{}, true
		}
		return state, hold, false
	}
	// 速度回落，取消启动计时
	return state, HoldState{}, false
}

/*
 * @module service/estimator
 * @description 滑动窗口速度估计：按窗口内脉冲总数与采样总时长计算平滑速度
 * @architecture 业务逻辑层
 * @documentReference DESIGN-000.md
 * @stateFlow 样本追加 -> 窗口裁剪 -> 速度重算
 * @rules 窗口为[ts-windowSec, ts]；采样总时长为0时速度为0
 * @dependencies 无
 */

package service

// pulseSample 单条遥测样本
type pulseSample struct {
	pulses     int64
	durationMs int64
	ts         int64 // 归一化时间戳（Unix秒）
}

// slidingWindow 单条产线的样本缓冲
type slidingWindow struct {
	samples []pulseSample
}

// Add 追加样本并按当前样本时间裁剪窗口，返回重算后的速度（米/分钟）
func (w *slidingWindow) Add(pulses, durationMs, ts int64, windowSec int) float64 {
	w.samples = append(w.samples, pulseSample{pulses: pulses, durationMs: durationMs, ts: ts})
	w.prune(ts, windowSec)
	return w.speed()
}

// prune 只保留[ts-windowSec, ts]内的样本
func (w *slidingWindow) prune(ts int64, windowSec int) {
	cutoff := ts - int64(windowSec)
	kept := w.samples[:0]
	for _, s := range w.samples {
		if s.ts >= cutoff && s.ts <= ts {
			kept = append(kept, s)
		}
	}
	w.samples = kept
}

// speed 当前窗口速度：脉冲总数 / 采样总时长（秒） * 60
func (w *slidingWindow) speed() float64 {
	var totalPulses, totalDurationMs int64
	for _, s := range w.samples {
		totalPulses += s.pulses
		totalDurationMs += s.durationMs
	}
	if totalDurationMs <= 0 {
		return 0
	}
	return float64(totalPulses) / (float64(totalDurationMs) / 1000.0) * 60.0
}

// Reset 清空样本缓冲（离线处理时调用）
func (w *slidingWindow) Reset() {
	w.samples = w.samples[:0]
}

// Len 当前样本数
func (w *slidingWindow) Len() int {
	return len(w.samples)
}

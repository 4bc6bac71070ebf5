/*
 * @module service/segment
 * @description 区段计算：由状态变更日志构建运行/停机区段，合并短抖动区段，输出按天统计
 * @architecture 业务逻辑层
 * @documentReference DESIGN-000.md
 * @stateFlow 事件列表 -> 原始区段 -> 短区段合并 -> 按天工时统计
 * @rules 短于60秒的区段改判为相邻区段的状态；每天按完整24小时统计；跨天以合并前的原始状态为准
 * @dependencies models
 */

package service

import (
	"math"
	"time"

	"line-monitor-service/models"
)

// shortSegmentSec 短区段阈值（秒），短于该时长的区段视为抖动
const shortSegmentSec = 60

const daySeconds = 86400

// Segment 单个状态区段 [Start, End)
type Segment struct {
	Start   int64  `json:"start"`             // 区段起点（Unix秒）
	End     int64  `json:"end"`               // 区段终点（Unix秒）
	Running bool   `json:"running"`           // 区段状态
	Product string `json:"product,omitempty"` // 区段内产品名称（报表用）
}

// Duration 区段时长（秒）
func (s Segment) Duration() int64 {
	return s.End - s.Start
}

// DayWorkIdle 单日工时统计
type DayWorkIdle struct {
	Date      string    `json:"date"`      // 日期（YYYY-MM-DD，UTC）
	WorkHours float64   `json:"work"`      // 运行小时数（一位小数）
	IdleHours float64   `json:"idle"`      // 停机小时数（一位小数）
	Stops     []Segment `json:"stops"`     // 停机子区段
}

// BuildSegments 由升序事件构建[from, to)内的原始区段。
// initialRunning为窗口起点时刻的状态；splitOnProduct为真时产品变更也切分区段（报表路径）。
func BuildSegments(events []*models.StateLog, from, to int64, initialRunning bool, initialProduct string, splitOnProduct bool) []Segment {
	if to <= from {
		return nil
	}

	var segments []Segment
	current := Segment{Start: from, Running: initialRunning, Product: initialProduct}

	for _, ev := range events {
		if ev.Timestamp < from {
			// 窗口前的事件只修正起始状态
			current.Running = ev.IsRunning
			if ev.ProductName != "" {
				current.Product = ev.ProductName
			}
			continue
		}
		if ev.Timestamp >= to {
			break
		}

		product := current.Product
		if ev.ProductName != "" {
			product = ev.ProductName
		}
		stateChanged := ev.IsRunning != current.Running
		productChanged := splitOnProduct && product != current.Product
		if !stateChanged && !productChanged {
			continue
		}

		if ev.Timestamp > current.Start {
			current.End = ev.Timestamp
			segments = append(segments, current)
		}
		current = Segment{Start: ev.Timestamp, Running: ev.IsRunning, Product: product}
	}

	current.End = to
	if current.End > current.Start {
		segments = append(segments, current)
	}
	return segments
}

// MergeShortSegments 合并短区段，消除传感器抖动与微停机：
// 每次取当前最短的、短于60秒的区段改判为相邻状态——夹在两段同状态区段之间时
// 桥接两侧，位于开头/结尾时并入相邻区段。相邻同状态同产品的区段顺带接合。
// 整个窗口只有一个区段时不改判（没有相邻状态可供参照）。
func MergeShortSegments(segments []Segment) []Segment {
	merged := coalesceSegments(segments)

	for len(merged) > 1 {
		idx := -1
		for i, seg := range merged {
			if seg.Duration() < shortSegmentSec && (idx < 0 || seg.Duration() < merged[idx].Duration()) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}

		switch {
		case idx == 0:
			// 开头的短区段改判为后一区段的状态
			merged[1].Start = merged[0].Start
			merged = merged[1:]
		case idx == len(merged)-1:
			// 结尾的短区段改判为前一区段的状态
			merged[idx-1].End = merged[idx].End
			merged = merged[:idx]
		default:
			prev := &merged[idx-1]
			next := merged[idx+1]
			if prev.Running == next.Running && prev.Product == next.Product {
				// 两侧同状态同产品：桥接为一个区段
				prev.End = next.End
				merged = append(merged[:idx], merged[idx+2:]...)
			} else {
				// 产品切分处只并入前一区段，保留切分
				prev.End = merged[idx].End
				merged = append(merged[:idx], merged[idx+1:]...)
			}
		}
	}
	return merged
}

// coalesceSegments 接合相邻的同状态同产品区段
func coalesceSegments(segments []Segment) []Segment {
	var out []Segment
	for _, seg := range segments {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if seg.Running == last.Running && seg.Product == last.Product {
				last.End = seg.End
				continue
			}
		}
		out = append(out, seg)
	}
	return out
}

// ComputeDailyWorkIdle 计算截至to的最近days天工时统计，从最早一天到今天升序。
// 每天按完整24小时统计（工时+停时恒等于24.0），当天尚未到来的时间按当前状态延续。
// events须为升序且覆盖整个窗口；initialRunning为窗口起点前的最近状态。
// 跨天延续的是合并前的原始状态，短区段合并只影响当天的统计口径。
func ComputeDailyWorkIdle(events []*models.StateLog, to int64, days int, initialRunning bool) []DayWorkIdle {
	result := make([]DayWorkIdle, 0, days)
	running := initialRunning
	idx := 0

	for d := days - 1; d >= 0; d-- {
		dayStart := (to - int64(d)*daySeconds) / daySeconds * daySeconds
		// 每天都按完整24小时统计，当天剩余时间按当前状态延续
		dayEnd := dayStart + daySeconds

		var dayEvents []*models.StateLog
		for idx < len(events) && events[idx].Timestamp < dayEnd {
			if events[idx].Timestamp >= dayStart {
				dayEvents = append(dayEvents, events[idx])
			}
			idx++
		}

		raw := BuildSegments(dayEvents, dayStart, dayEnd, running, "", false)
		if len(raw) > 0 {
			running = raw[len(raw)-1].Running
		}

		var workSec, idleSec int64
		var stops []Segment
		for _, seg := range MergeShortSegments(raw) {
			if seg.Running {
				workSec += seg.Duration()
			} else {
				idleSec += seg.Duration()
				stops = append(stops, seg)
			}
		}

		result = append(result, DayWorkIdle{
			Date:      time.Unix(dayStart, 0).UTC().Format("2006-01-02"),
			WorkHours: roundHours(workSec),
			IdleHours: roundHours(idleSec),
			Stops:     stops,
		})
	}
	return result
}

// roundHours 秒转小时，保留一位小数
func roundHours(sec int64) float64 {
	return math.Round(float64(sec)/3600.0*10) / 10
}

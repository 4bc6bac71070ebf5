/*
 * @module service/agent_service
 * @description 产线监控引擎：滑动窗口测速、迟滞状态机、分钟聚合与历史查询的编排入口
 * @architecture 业务逻辑层
 * @documentReference DESIGN-000.md
 * @stateFlow 遥测上报 -> 测速 -> 迟滞评估 -> 分钟聚合；后台巡检 -> 离线处理/分钟刷出
 * @rules 单互斥锁串行化全部状态变更；引擎内不做任何存储IO，持久化由调用方负责
 * @dependencies repository, models
 */

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"line-monitor-service/models"
	"line-monitor-service/repository"
)

// millisThreshold 时间戳量级阈值：大于该值视为毫秒，归一化为秒
const millisThreshold = int64(1e12)

// NormalizeTimestamp 时间戳归一化。设备固件秒/毫秒口径不一，按量级判断
func NormalizeTimestamp(ts int64) int64 {
	if ts > millisThreshold {
		return ts / 1000
	}
	return ts
}

// lineRuntime 单条产线的内存运行态
type lineRuntime struct {
	window     slidingWindow
	speed      float64
	state      models.LineState
	hold       HoldState
	lastPacket int64 // 最后一次收到数据包的本机时间（Unix秒）
}

// IngestResult 单次上报的处理结果
type IngestResult struct {
	LineID       string
	Speed        float64
	State        models.LineState
	StateChanged bool
	Timestamp    int64 // 归一化后的样本时间戳
}

// LineSnapshot 产线运行态快照（巡检与看板用）
type LineSnapshot struct {
	LineID         string
	Speed          float64
	State          models.LineState
	LastPacketTime int64
}

// SpeedSeries 分钟速度曲线
type SpeedSeries struct {
	Labels []string   `json:"labels"` // 分钟标签（RFC3339，UTC）
	Data   []*float64 `json:"data"`   // 每分钟平均速度，无数据的分钟为null
}

// AgentService 产线监控引擎
type AgentService struct {
	mu       sync.Mutex
	settings models.RuntimeSettings
	lines    map[string]*lineRuntime
	agg      *minuteAggregator

	repos repository.RepositoryManager

	// now 可注入时钟，测试用
	now func() time.Time
}

// NewAgentService 创建监控引擎
func NewAgentService(repos repository.RepositoryManager, settings models.RuntimeSettings) *AgentService {
	return &AgentService{
		settings: settings,
		lines:    make(map[string]*lineRuntime),
		agg:      newMinuteAggregator(),
		repos:    repos,
		now:      time.Now,
	}
}

// line 取产线运行态，首次出现时初始化为停机（不产生事件）
func (a *AgentService) line(lineID string) *lineRuntime {
	rt, ok := a.lines[lineID]
	if !ok {
		rt = &lineRuntime{state: models.LineStateStopped}
		a.lines[lineID] = rt
	}
	return rt
}

// Ingest 处理一次遥测上报：测速、迟滞评估、分钟聚合。
// 不做存储IO；状态日志与快照更新由调用方根据返回值执行。
func (a *AgentService) Ingest(lineID string, pulses, durationMs int64, ts *int64) IngestResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now().Unix()
	sampleTs := now
	if ts != nil && *ts > 0 {
		sampleTs = NormalizeTimestamp(*ts)
	}

	rt := a.line(lineID)
	speed := rt.window.Add(pulses, durationMs, sampleTs, a.settings.WindowSec)
	rt.speed = speed
	rt.lastPacket = now

	state, hold, changed := EvaluateLineState(rt.state, rt.hold, speed, sampleTs, a.settings)
	rt.state = state
	rt.hold = hold

	a.agg.Record(lineID, sampleTs, speed)

	return IngestResult{
		LineID:       lineID,
		Speed:        speed,
		State:        state,
		StateChanged: changed,
		Timestamp:    sampleTs,
	}
}

// GetSmoothedSpeed 当前平滑速度，未知产线返回0
func (a *AgentService) GetSmoothedSpeed(lineID string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if rt, ok := a.lines[lineID]; ok {
		return rt.speed
	}
	return 0
}

// GetState 当前运行状态，未知产线返回停机
func (a *AgentService) GetState(lineID string) models.LineState {
	a.mu.Lock()
	defer a.mu.Unlock()

	if rt, ok := a.lines[lineID]; ok {
		return rt.state
	}
	return models.LineStateStopped
}

// Snapshot 全部已知产线的运行态快照
func (a *AgentService) Snapshot() []LineSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]LineSnapshot, 0, len(a.lines))
	for lineID, rt := range a.lines {
		out = append(out, LineSnapshot{
			LineID:         lineID,
			Speed:          rt.speed,
			State:          rt.state,
			LastPacketTime: rt.lastPacket,
		})
	}
	return out
}

// HandleOffline 离线处理：强制停机并清空窗口与确认计时。
// 返回状态是否真的发生了变化（只有变化时调用方才记录事件、发通知）。
func (a *AgentService) HandleOffline(lineID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	rt, ok := a.lines[lineID]
	if !ok {
		return false
	}

	wasRunning := rt.state.IsRunning()
	rt.window.Reset()
	rt.speed = 0
	rt.hold = HoldState{}
	rt.state = models.LineStateStopped
	return wasRunning
}

// UpdateSettings 热更新运行时参数，从下一次上报/巡检开始生效
func (a *AgentService) UpdateSettings(settings models.RuntimeSettings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings = settings
}

// Settings 当前运行时参数副本
func (a *AgentService) Settings() models.RuntimeSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// FlushMinutes 刷出所有已完结分钟的平均速度并从内存移除。
// 当前分钟保留；持久化由调用方（巡检服务）负责，写失败也不回灌。
func (a *AgentService) FlushMinutes() []MinuteAverage {
	a.mu.Lock()
	defer a.mu.Unlock()

	nowMinute := a.now().Unix() / 60 * 60
	return a.agg.Drain(nowMinute)
}

// GetSeries 查询最近hours小时的分钟速度曲线，共hours*60+1个点，缺失分钟为null
func (a *AgentService) GetSeries(ctx context.Context, lineID string, hours int) (*SpeedSeries, error) {
	a.mu.Lock()
	toMinute := a.now().Unix() / 60 * 60
	a.mu.Unlock()

	fromMinute := toMinute - int64(hours)*3600

	stats, err := a.repos.MinuteStat().FindRange(ctx, lineID, fromMinute, toMinute)
	if err != nil {
		return nil, fmt.Errorf("failed to query minute stats for %s: %w", lineID, err)
	}

	byMinute := make(map[int64]float64, len(stats))
	for _, stat := range stats {
		byMinute[stat.Ts] = stat.Speed
	}

	points := hours*60 + 1
	series := &SpeedSeries{
		Labels: make([]string, 0, points),
		Data:   make([]*float64, 0, points),
	}
	for t := fromMinute; t <= toMinute; t += 60 {
		series.Labels = append(series.Labels, time.Unix(t, 0).UTC().Format(time.RFC3339))
		if speed, ok := byMinute[t]; ok {
			v := speed
			series.Data = append(series.Data, &v)
		} else {
			series.Data = append(series.Data, nil)
		}
	}
	return series, nil
}

// GetDailyWorkIdle 查询最近days天的每日工时统计（升序）。
// 窗口起点状态取窗口前最近一条事件，没有历史时默认停机。
func (a *AgentService) GetDailyWorkIdle(ctx context.Context, lineID string, days int) ([]DayWorkIdle, error) {
	a.mu.Lock()
	to := a.now().Unix()
	a.mu.Unlock()

	firstDayStart := (to - int64(days-1)*daySeconds) / daySeconds * daySeconds

	events, err := a.repos.StateLog().FindRange(ctx, lineID, firstDayStart, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query state logs for %s: %w", lineID, err)
	}

	initialRunning := false
	prev, err := a.repos.StateLog().LatestBefore(ctx, lineID, firstDayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to query initial state for %s: %w", lineID, err)
	}
	if prev != nil {
		initialRunning = prev.IsRunning
	}

	return ComputeDailyWorkIdle(events, to, days, initialRunning), nil
}

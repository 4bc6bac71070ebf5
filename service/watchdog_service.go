/*
 * @module service/watchdog_service
 * @description 产线巡检服务：定时刷出分钟统计、离线判定强制停机、原始存档清理
 * @architecture 服务层
 * @documentReference DESIGN-000.md
 * @stateFlow 定时巡检 -> 分钟刷出/离线检测 -> 持久化 -> 事件推送 -> 通知
 * @rules 存储失败写系统日志，绝不影响引擎内存状态；只有状态真实变化才记事件发通知
 * @dependencies repository, client, models
 */

package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"line-monitor-service/client"
	"line-monitor-service/models"
	"line-monitor-service/repository"
)

// WatchdogConfig 巡检配置
type WatchdogConfig struct {
	FlushInterval      time.Duration `json:"flush_interval"`       // 分钟统计刷新间隔
	SweepInterval      time.Duration `json:"sweep_interval"`       // 离线巡检间隔
	PulseRetentionDays int           `json:"pulse_retention_days"` // 原始脉冲存档保留天数
	CleanupInterval    time.Duration `json:"cleanup_interval"`     // 存档清理间隔
}

// DefaultWatchdogConfig 默认巡检配置
func DefaultWatchdogConfig() *WatchdogConfig {
	return &WatchdogConfig{
		FlushInterval:      15 * time.Second,
		SweepInterval:      15 * time.Second,
		PulseRetentionDays: 90,
		CleanupInterval:    6 * time.Hour,
	}
}

// WatchdogMetrics 巡检指标
type WatchdogMetrics struct {
	TotalSweeps        int64 `json:"total_sweeps"`        // 巡检总次数
	OfflineTransitions int64 `json:"offline_transitions"` // 离线导致的停机次数
	FlushedMinutes     int64 `json:"flushed_minutes"`     // 已刷出的分钟桶数
	FlushErrors        int64 `json:"flush_errors"`        // 分钟统计写入失败次数
}

// LineWatchdogService 产线巡检服务
type LineWatchdogService struct {
	agent    *AgentService
	repos    repository.RepositoryManager
	settings *SettingsService
	sse      SSEService
	notifier *client.TelegramClient

	config *WatchdogConfig

	// 定时器
	flushTicker   *time.Ticker
	sweepTicker   *time.Ticker
	cleanupTicker *time.Ticker

	// 控制通道
	stopChan chan struct{}
	wg       sync.WaitGroup

	// 状态管理
	mu      sync.RWMutex
	running bool

	// 巡检指标（原子操作）
	totalSweeps        int64
	offlineTransitions int64
	flushedMinutes     int64
	flushErrors        int64

	// 日志服务
	logService SystemLogService
}

// NewLineWatchdogService 创建产线巡检服务
func NewLineWatchdogService(
	agent *AgentService,
	repos repository.RepositoryManager,
	settings *SettingsService,
	sse SSEService,
	notifier *client.TelegramClient,
	config *WatchdogConfig,
	logService SystemLogService,
) *LineWatchdogService {
	if config == nil {
		config = DefaultWatchdogConfig()
	}

	return &LineWatchdogService{
		agent:      agent,
		repos:      repos,
		settings:   settings,
		sse:        sse,
		notifier:   notifier,
		config:     config,
		stopChan:   make(chan struct{}),
		logService: logService,
	}
}

// Start 启动巡检服务
func (s *LineWatchdogService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		log.Println("[LineWatchdogService] 服务已在运行中")
		return
	}

	s.running = true

	if s.logService != nil {
		s.logService.Info("line_watchdog_service", "服务启动",
			fmt.Sprintf("巡检服务启动 - 刷新间隔: %v, 离线巡检间隔: %v",
				s.config.FlushInterval, s.config.SweepInterval))
	}

	// 启动分钟统计刷新
	s.flushTicker = time.NewTicker(s.config.FlushInterval)
	s.wg.Add(1)
	go s.flushLoop()

	// 启动离线巡检
	s.sweepTicker = time.NewTicker(s.config.SweepInterval)
	s.wg.Add(1)
	go s.sweepLoop()

	// 启动存档清理
	s.cleanupTicker = time.NewTicker(s.config.CleanupInterval)
	s.wg.Add(1)
	go s.cleanupLoop()

	log.Printf("[LineWatchdogService] 巡检服务已启动 - flush=%v sweep=%v",
		s.config.FlushInterval, s.config.SweepInterval)
}

// Stop 停止巡检服务，停止前做最后一次分钟刷出
func (s *LineWatchdogService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopChan)
	s.flushTicker.Stop()
	s.sweepTicker.Stop()
	s.cleanupTicker.Stop()
	s.wg.Wait()

	// 退出前刷出剩余的已完结分钟
	s.flushMinutes()

	log.Println("[LineWatchdogService] 巡检服务已停止")
}

// IsRunning 服务是否在运行
func (s *LineWatchdogService) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// GetMetrics 巡检指标快照
func (s *LineWatchdogService) GetMetrics() WatchdogMetrics {
	return WatchdogMetrics{
		TotalSweeps:        atomic.LoadInt64(&s.totalSweeps),
		OfflineTransitions: atomic.LoadInt64(&s.offlineTransitions),
		FlushedMinutes:     atomic.LoadInt64(&s.flushedMinutes),
		FlushErrors:        atomic.LoadInt64(&s.flushErrors),
	}
}

// flushLoop 分钟统计刷新循环
func (s *LineWatchdogService) flushLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopChan:
			return
		case <-s.flushTicker.C:
			s.flushMinutes()
		}
	}
}

// sweepLoop 离线巡检循环
func (s *LineWatchdogService) sweepLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopChan:
			return
		case <-s.sweepTicker.C:
			s.sweepOfflineLines()
		}
	}
}

// cleanupLoop 存档清理循环
func (s *LineWatchdogService) cleanupLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopChan:
			return
		case <-s.cleanupTicker.C:
			s.cleanupPulseArchive()
		}
	}
}

// flushMinutes 将引擎刷出的分钟平均写入minute_stats。
// 单条写失败不回灌聚合桶（统计仅用于展示），记系统日志后继续。
func (s *LineWatchdogService) flushMinutes() {
	averages := s.agent.FlushMinutes()
	if len(averages) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, avg := range averages {
		stat := &models.MinuteStat{
			LineID: avg.LineID,
			Ts:     avg.Minute,
			Speed:  avg.Speed,
		}
		if err := s.repos.MinuteStat().Upsert(ctx, stat); err != nil {
			atomic.AddInt64(&s.flushErrors, 1)
			if s.logService != nil {
				s.logService.Error("line_watchdog_service", "分钟统计写入失败",
					fmt.Sprintf("产线 %s 分钟 %d 写入失败", avg.LineID, avg.Minute),
					err, WithSourceID(avg.LineID))
			}
			continue
		}
		atomic.AddInt64(&s.flushedMinutes, 1)
	}
}

// sweepOfflineLines 离线判定：超过offlineTimeout没有数据包的产线强制停机。
// 只有状态真实变化（原来在运行）才记事件、推送、通知。
func (s *LineWatchdogService) sweepOfflineLines() {
	atomic.AddInt64(&s.totalSweeps, 1)

	settings := s.settings.Current()
	now := time.Now().Unix()
	timeout := int64(settings.OfflineTimeout)

	for _, snap := range s.agent.Snapshot() {
		if snap.LastPacketTime == 0 || now-snap.LastPacketTime <= timeout {
			continue
		}

		changed := s.agent.HandleOffline(snap.LineID)
		if !changed {
			continue
		}

		atomic.AddInt64(&s.offlineTransitions, 1)
		log.Printf("[LineWatchdogService] 产线 %s 离线强制停机（%ds无数据）",
			snap.LineID, now-snap.LastPacketTime)

		s.persistTransition(snap.LineID, now, settings)
	}
}

// persistTransition 持久化离线停机事件并推送
func (s *LineWatchdogService) persistTransition(lineID string, now int64, settings models.RuntimeSettings) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	product := settings.Product(lineID)

	entry := &models.StateLog{
		LineID:      lineID,
		Timestamp:   now,
		IsRunning:   false,
		ProductName: product,
	}
	if err := s.repos.StateLog().Append(ctx, entry); err != nil && s.logService != nil {
		s.logService.Error("line_watchdog_service", "状态日志写入失败",
			fmt.Sprintf("产线 %s 离线停机事件写入失败", lineID), err, WithSourceID(lineID))
	}

	if err := s.repos.LineStatus().UpdateFields(ctx, lineID, map[string]interface{}{
		"is_running": false,
	}); err != nil && s.logService != nil {
		s.logService.Error("line_watchdog_service", "状态快照更新失败",
			fmt.Sprintf("产线 %s 快照更新失败", lineID), err, WithSourceID(lineID))
	}

	if s.sse != nil {
		_ = s.sse.BroadcastLineUpdate(&LineEvent{
			LineID:      lineID,
			DisplayName: settings.DisplayName(lineID),
			IsRunning:   false,
			Speed:       0,
			Product:     product,
			Reason:      "offline",
			Timestamp:   now,
		})
	}

	if s.notifier != nil {
		text := fmt.Sprintf("产线 %s：停机（离线无数据）", settings.DisplayName(lineID))
		if product != "" {
			text = fmt.Sprintf("产线 %s（产品：%s）：停机（离线无数据）", settings.DisplayName(lineID), product)
		}
		s.notifier.NotifyAsync(settings.TelegramToken, settings.TelegramChatID, text)
	}
}

// cleanupPulseArchive 清理过期的原始脉冲存档
func (s *LineWatchdogService) cleanupPulseArchive() {
	if s.config.PulseRetentionDays <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.config.PulseRetentionDays).Unix()
	deleted, err := s.repos.Pulse().DeleteOlderThan(ctx, cutoff)
	if err != nil {
		if s.logService != nil {
			s.logService.Error("line_watchdog_service", "存档清理失败", "原始脉冲存档清理失败", err)
		}
		return
	}
	if deleted > 0 {
		log.Printf("[LineWatchdogService] 已清理 %d 条过期脉冲存档（保留 %d 天）",
			deleted, s.config.PulseRetentionDays)
	}
}

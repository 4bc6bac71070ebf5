/*
 * @module service/settings_service
 * @description 运行时参数服务：启动加载、校验保存、向引擎热推送
 * @architecture 服务层
 * @documentReference DESIGN-000.md
 * @stateFlow 启动 -> SystemConfig加载（缺省用默认值）-> 保存 -> 校验 -> 持久化 -> 引擎热更新
 * @rules 校验不通过拒绝保存；保存成功后立即对引擎生效，无需重启
 * @dependencies repository, models
 */

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"line-monitor-service/models"
	"line-monitor-service/repository"
)

// SettingsService 运行时参数服务
type SettingsService struct {
	mu      sync.RWMutex
	current models.RuntimeSettings

	configRepo repository.SystemConfigRepository
	agent      *AgentService
}

// NewSettingsService 创建运行时参数服务
func NewSettingsService(configRepo repository.SystemConfigRepository, agent *AgentService) *SettingsService {
	return &SettingsService{
		current:    models.DefaultRuntimeSettings(),
		configRepo: configRepo,
		agent:      agent,
	}
}

// Load 启动时从SystemConfig加载参数，没有持久化记录时使用默认值
func (s *SettingsService) Load(ctx context.Context) error {
	raw, err := s.configRepo.GetValue(ctx, models.ConfigKeyRuntimeSettings)
	if err != nil {
		return fmt.Errorf("failed to load runtime settings: %w", err)
	}

	settings := models.DefaultRuntimeSettings()
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			// 持久化内容损坏时回退默认值，不阻塞启动
			log.Printf("[SettingsService] 运行时参数解析失败，使用默认值: %v", err)
			settings = models.DefaultRuntimeSettings()
		}
	}
	if err := settings.Validate(); err != nil {
		log.Printf("[SettingsService] 持久化参数非法，使用默认值: %v", err)
		settings = models.DefaultRuntimeSettings()
	}

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()

	s.agent.UpdateSettings(settings)
	log.Printf("[SettingsService] 运行时参数已加载 - window=%ds V_START=%.2f V_STOP=%.2f delayStart=%ds delayStop=%ds offline=%ds",
		settings.WindowSec, settings.VStart, settings.VStop, settings.DelayStart, settings.DelayStop, settings.OfflineTimeout)
	return nil
}

// Current 当前参数副本
func (s *SettingsService) Current() models.RuntimeSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save 校验、持久化并热推送新参数
func (s *SettingsService) Save(ctx context.Context, settings models.RuntimeSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid runtime settings: %w", err)
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal runtime settings: %w", err)
	}
	if err := s.configRepo.SetValue(ctx, models.ConfigKeyRuntimeSettings, string(raw)); err != nil {
		return fmt.Errorf("failed to persist runtime settings: %w", err)
	}

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()

	s.agent.UpdateSettings(settings)
	log.Printf("[SettingsService] 运行时参数已保存并生效")
	return nil
}

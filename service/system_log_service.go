/*
 * @module service/system_log_service
 * @description 系统日志服务，提供统一的日志记录和管理功能
 * @architecture 服务层
 * @documentReference DESIGN-000.md
 * @stateFlow 日志记录 -> 存储 -> 查询 -> 清理
 * @rules 存储失败等内部错误写入系统日志而不是向上抛出；支持自动清理过期日志
 * @dependencies line-monitor-service/repository, line-monitor-service/models
 */

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"line-monitor-service/models"
	"line-monitor-service/repository"
)

// SystemLogService 系统日志服务接口
type SystemLogService interface {
	// 日志记录方法
	Info(source, title, message string, opts ...LogOption) error
	Warn(source, title, message string, opts ...LogOption) error
	Error(source, title, message string, err error, opts ...LogOption) error

	// 查询方法
	GetRecentLogs(ctx context.Context, level models.LogLevel, limit int) ([]*models.SystemLog, error)

	// 清理方法
	CleanupOldLogs(ctx context.Context) (int64, error)

	// 启动清理任务
	StartCleanupScheduler(ctx context.Context)
}

// LogOption 日志选项
type LogOption func(*LogOptions)

// LogOptions 日志选项结构
type LogOptions struct {
	SourceID string
	Details  string
}

// WithSourceID 设置来源ID（产线ID等）
func WithSourceID(sourceID string) LogOption {
	return func(opts *LogOptions) {
		opts.SourceID = sourceID
	}
}

// WithDetails 设置详细信息
func WithDetails(details string) LogOption {
	return func(opts *LogOptions) {
		opts.Details = details
	}
}

// systemLogService 系统日志服务实现
type systemLogService struct {
	logRepo     repository.SystemLogRepository
	cleanupDays int // 日志保留天数
}

// NewSystemLogService 创建系统日志服务实例
func NewSystemLogService(logRepo repository.SystemLogRepository, cleanupDays int) SystemLogService {
	if cleanupDays <= 0 {
		cleanupDays = 30
	}
	return &systemLogService{
		logRepo:     logRepo,
		cleanupDays: cleanupDays,
	}
}

// Info 记录信息日志
func (s *systemLogService) Info(source, title, message string, opts ...LogOption) error {
	return s.createLog(models.LogLevelInfo, source, title, message, opts...)
}

// Warn 记录警告日志
func (s *systemLogService) Warn(source, title, message string, opts ...LogOption) error {
	return s.createLog(models.LogLevelWarn, source, title, message, opts...)
}

// Error 记录错误日志
func (s *systemLogService) Error(source, title, message string, err error, opts ...LogOption) error {
	if err != nil {
		opts = append(opts, WithDetails(err.Error()))
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return s.createLog(models.LogLevelError, source, title, message, opts...)
}

// createLog 创建日志记录
func (s *systemLogService) createLog(level models.LogLevel, source, title, message string, opts ...LogOption) error {
	options := &LogOptions{}
	for _, opt := range opts {
		opt(options)
	}

	entry := &models.SystemLog{
		Level:    level,
		Source:   source,
		SourceID: options.SourceID,
		Title:    title,
		Message:  message,
		Details:  options.Details,
	}

	if err := s.logRepo.Create(context.Background(), entry); err != nil {
		// 日志落库失败只能退回标准输出
		log.Printf("[SystemLogService] 日志写入失败 [%s] %s - %s: %v", level, source, message, err)
		return err
	}
	return nil
}

// GetRecentLogs 查询最近的系统日志
func (s *systemLogService) GetRecentLogs(ctx context.Context, level models.LogLevel, limit int) ([]*models.SystemLog, error) {
	return s.logRepo.FindRecent(ctx, level, limit)
}

// CleanupOldLogs 清理过期日志
func (s *systemLogService) CleanupOldLogs(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.cleanupDays)
	deleted, err := s.logRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old logs: %w", err)
	}
	if deleted > 0 {
		log.Printf("[SystemLogService] 已清理 %d 条过期日志（保留 %d 天）", deleted, s.cleanupDays)
	}
	return deleted, nil
}

// StartCleanupScheduler 启动日志清理调度器，每24小时清理一次
func (s *systemLogService) StartCleanupScheduler(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	log.Printf("[SystemLogService] 日志清理调度器已启动，保留 %d 天", s.cleanupDays)

	for {
		select {
		case <-ctx.Done():
			log.Println("[SystemLogService] 日志清理调度器已停止")
			return
		case <-ticker.C:
			if _, err := s.CleanupOldLogs(ctx); err != nil {
				log.Printf("[SystemLogService] 日志清理失败: %v", err)
			}
		}
	}
}

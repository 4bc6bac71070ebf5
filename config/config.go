/*
 * @module config/config
 * @description 统一配置管理，从环境变量加载配置项
 * @architecture 配置层
 * @documentReference DESIGN-000.md
 * @stateFlow 环境变量 -> 配置加载 -> 服务初始化
 * @rules 所有配置使用环境变量，提供默认值，启动时检查和验证
 * @dependencies os, time, strconv
 */

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 应用程序统一配置
type Config struct {
	// 应用配置
	App AppConfig `json:"app"`
	// 数据库配置
	Database DatabaseConfig `json:"database"`
	// 监控巡检配置
	Monitor MonitorConfig `json:"monitor"`
	// 登录认证配置
	Auth AuthConfig `json:"auth"`
	// 服务器配置
	Server ServerConfig `json:"server"`
	// 日志配置
	Log LogConfig `json:"log"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name        string `json:"name"`        // 应用名称
	Version     string `json:"version"`     // 应用版本
	Environment string `json:"environment"` // 运行环境 (dev/test/prod)
	Debug       bool   `json:"debug"`       // 调试模式
}

// MonitorConfig 监控巡检配置
type MonitorConfig struct {
	FlushInterval      time.Duration `json:"flush_interval"`       // 分钟统计刷新间隔
	SweepInterval      time.Duration `json:"sweep_interval"`       // 离线巡检间隔
	PulseRetentionDays int           `json:"pulse_retention_days"` // 原始脉冲存档保留天数
	CleanupInterval    time.Duration `json:"cleanup_interval"`     // 存档清理间隔
}

// AuthConfig 登录认证配置
type AuthConfig struct {
	Username         string        `json:"username"`          // 看板登录用户名
	Password         string        `json:"-"`                 // 看板登录密码
	SettingsPassword string        `json:"-"`                 // 设置页二次确认密码
	SessionTTL       time.Duration `json:"session_ttl"`       // 会话有效期
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `json:"host"` // 监听地址
	Port int    `json:"port"` // 监听端口

	// CORS配置
	AllowedOrigins []string `json:"allowed_origins"` // 允许的源
	AllowedMethods []string `json:"allowed_methods"` // 允许的方法
	AllowedHeaders []string `json:"allowed_headers"` // 允许的头部
}

// LogConfig 日志配置
type LogConfig struct {
	Level         string `json:"level"`          // 日志级别 (debug/info/warn/error)
	RetentionDays int    `json:"retention_days"` // 系统日志保留天数
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	config := &Config{
		App:      loadAppConfig(),
		Database: *LoadDatabaseConfig(),
		Monitor:  loadMonitorConfig(),
		Auth:     loadAuthConfig(),
		Server:   loadServerConfig(),
		Log:      loadLogConfig(),
	}

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Printf("Configuration loaded successfully for environment: %s", config.App.Environment)
	return config, nil
}

// loadAppConfig 加载应用配置
func loadAppConfig() AppConfig {
	return AppConfig{
		Name:        getEnv("APP_NAME", "line-monitor-service"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "dev"),
		Debug:       getEnvAsBool("APP_DEBUG", true),
	}
}

// loadMonitorConfig 加载监控巡检配置
func loadMonitorConfig() MonitorConfig {
	return MonitorConfig{
		FlushInterval:      getEnvAsDuration("MONITOR_FLUSH_INTERVAL", "15s"),
		SweepInterval:      getEnvAsDuration("MONITOR_SWEEP_INTERVAL", "15s"),
		PulseRetentionDays: getEnvAsInt("MONITOR_PULSE_RETENTION_DAYS", 90),
		CleanupInterval:    getEnvAsDuration("MONITOR_CLEANUP_INTERVAL", "6h"),
	}
}

// loadAuthConfig 加载登录认证配置
func loadAuthConfig() AuthConfig {
	return AuthConfig{
		Username:         getEnv("AUTH_USERNAME", "admin"),
		Password:         getEnv("AUTH_PASSWORD", "admin"),
		SettingsPassword: getEnv("AUTH_SETTINGS_PASSWORD", "admin"),
		SessionTTL:       getEnvAsDuration("AUTH_SESSION_TTL", "720h"),
	}
}

// loadServerConfig 加载服务器配置
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host: getEnv("SERVER_HOST", "0.0.0.0"),
		Port: getEnvAsInt("SERVER_PORT", 8080),

		// CORS配置
		AllowedOrigins: getEnvAsStringSlice("SERVER_ALLOWED_ORIGINS", []string{"*"}),
		AllowedMethods: getEnvAsStringSlice("SERVER_ALLOWED_METHODS",
			[]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		AllowedHeaders: getEnvAsStringSlice("SERVER_ALLOWED_HEADERS",
			[]string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"}),
	}
}

// loadLogConfig 加载日志配置
func loadLogConfig() LogConfig {
	return LogConfig{
		Level:         getEnv("LOG_LEVEL", "info"),
		RetentionDays: getEnvAsInt("LOG_RETENTION_DAYS", 30),
	}
}

// Validate 验证配置项的有效性
func (c *Config) Validate() error {
	// 验证应用配置
	if c.App.Name == "" {
		return fmt.Errorf("app name cannot be empty")
	}

	// 验证环境
	validEnvs := []string{"dev", "test", "prod"}
	if !contains(validEnvs, c.App.Environment) {
		return fmt.Errorf("invalid environment: %s, must be one of %v", c.App.Environment, validEnvs)
	}

	// 验证服务器端口
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// 验证巡检间隔
	if c.Monitor.FlushInterval <= 0 {
		return fmt.Errorf("flush interval must be positive")
	}
	if c.Monitor.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}

	// 验证登录配置
	if c.Auth.Username == "" || c.Auth.Password == "" {
		return fmt.Errorf("auth username and password cannot be empty")
	}

	// 验证日志级别
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level: %s, must be one of %v", c.Log.Level, validLogLevels)
	}

	return nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "dev"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Environment == "prod"
}

// GetServerAddress 获取服务器地址
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// 环境变量辅助函数

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		// 支持逗号分隔的字符串
		return strings.Split(strings.TrimSpace(value), ",")
	}
	return defaultValue
}

// 检查切片中是否包含指定元素
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// PrintConfig 打印配置信息（隐藏敏感信息）
func (c *Config) PrintConfig() {
	log.Println("=== Application Configuration ===")
	log.Printf("App Name: %s", c.App.Name)
	log.Printf("Version: %s", c.App.Version)
	log.Printf("Environment: %s", c.App.Environment)
	log.Printf("Debug Mode: %v", c.App.Debug)
	log.Printf("Server: %s", c.GetServerAddress())
	log.Printf("Database: %s@%s:%d/%s", c.Database.User, c.Database.Host, c.Database.Port, c.Database.DBName)
	log.Printf("Flush Interval: %v", c.Monitor.FlushInterval)
	log.Printf("Sweep Interval: %v", c.Monitor.SweepInterval)
	log.Printf("Pulse Retention: %d days", c.Monitor.PulseRetentionDays)
	log.Printf("Log Level: %s", c.Log.Level)
	log.Println("================================")
}

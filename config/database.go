/*
 * @module config/database
 * @description 数据库配置和初始化
 * @architecture 配置层
 * @documentReference DESIGN-000.md
 * @stateFlow 配置加载 -> 数据库连接 -> 迁移 -> 产线初始化 -> 服务使用
 * @rules 根据GORM最佳实践配置数据库连接池、日志等
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 */

package config

import (
	"fmt"
	"log"
	"time"

	"line-monitor-service/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库配置结构
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	TimeZone     string
	MaxIdleConns int
	MaxOpenConns int
	MaxLifetime  time.Duration
	LogLevel     logger.LogLevel
}

// LoadDatabaseConfig 从环境变量加载数据库配置
func LoadDatabaseConfig() *DatabaseConfig {
	config := &DatabaseConfig{
		Host:         getEnv("DB_HOST", "localhost"),
		Port:         getEnvAsInt("DB_PORT", 5432),
		User:         getEnv("DB_USER", "postgres"),
		Password:     getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "line_monitor"),
		SSLMode:      getEnv("DB_SSLMODE", "disable"),
		TimeZone:     getEnv("DB_TIMEZONE", "Asia/Shanghai"),
		MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", "1h"),
		LogLevel:     getLogLevel(getEnv("DB_LOG_LEVEL", "warn")),
	}

	return config
}

// BuildDSN 构建PostgreSQL数据源名称
func (c *DatabaseConfig) BuildDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode, c.TimeZone)
}

// InitDatabase 初始化数据库连接
func InitDatabase() (*gorm.DB, error) {
	config := LoadDatabaseConfig()

	// 配置GORM
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(config.LogLevel),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false, // 使用复数表名
		},
	}

	// 连接数据库
	db, err := gorm.Open(postgres.Open(config.BuildDSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 获取底层的sql.DB对象来配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 配置连接池
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.MaxLifetime)

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Successfully connected to database: %s@%s:%d/%s",
		config.User, config.Host, config.Port, config.DBName)

	return db, nil
}

// AutoMigrate 执行数据库迁移
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting database migration...")

	// 按依赖顺序迁移模型
	tables := []interface{}{
		// 产线快照与遥测
		&models.LineStatus{},
		&models.StateLog{},
		&models.PulseRecord{},
		&models.MinuteStat{},

		// 系统表
		&models.SystemConfig{},
		&models.SystemLog{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", table, err)
		}
	}

	log.Println("Database migration completed successfully")
	return nil
}

// SeedLineRoster 初始化默认产线快照行（line1..line13）
func SeedLineRoster(db *gorm.DB) error {
	for _, lineID := range models.DefaultLineRoster() {
		status := models.LineStatus{LineID: lineID}
		if err := db.Where("line_id = ?", lineID).FirstOrCreate(&status).Error; err != nil {
			return fmt.Errorf("failed to seed line %s: %w", lineID, err)
		}
	}

	log.Printf("Line roster seeded: %d lines", models.DefaultLineCount)
	return nil
}

// CloseDatabase 关闭数据库连接
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// 辅助函数已在config.go中定义

func getLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

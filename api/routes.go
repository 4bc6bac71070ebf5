/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference DESIGN-000.md
 * @stateFlow 无状态HTTP请求处理；后台巡检服务随路由初始化启动
 * @rules 设备上报与探活接口免登录；看板查询、报表、设置接口需要会话
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 */

package api

import (
	"context"
	"log"

	"line-monitor-service/api/controllers"
	mw "line-monitor-service/api/middleware"
	"line-monitor-service/client"
	"line-monitor-service/config"
	"line-monitor-service/models"
	"line-monitor-service/repository"
	"line-monitor-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// InitRoute 初始化所有API路由，返回巡检服务供关停时回收
func InitRoute(r *chi.Mux, db *gorm.DB, cfg *config.Config) *service.LineWatchdogService {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   cfg.Server.AllowedMethods,
		AllowedHeaders:   cfg.Server.AllowedHeaders,
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查与服务器时间（设备探活/校时，免登录）
	healthController := controllers.NewHealthController()
	r.Get("/healthz", healthController.Health)
	r.Get("/time", healthController.Time)

	// 创建SSE服务（全局服务，不依赖数据库）
	sseService := service.NewSSEService()

	// 会话存储（内存）
	sessions := mw.NewSessionStore(cfg.Auth.SessionTTL)

	var watchdogService *service.LineWatchdogService

	if db != nil {
		// Repository管理器与系统日志服务
		repoManager := repository.NewRepositoryManager(db)
		systemLogService := service.NewSystemLogService(repoManager.SystemLog(), cfg.Log.RetentionDays)

		// 监控引擎与运行时参数
		agent := service.NewAgentService(repoManager, models.DefaultRuntimeSettings())
		settingsService := service.NewSettingsService(repoManager.SystemConfig(), agent)
		if err := settingsService.Load(context.Background()); err != nil {
			log.Printf("运行时参数加载失败，使用默认值: %v", err)
		}

		// Telegram通知客户端
		notifier := client.NewTelegramClient()

		// 巡检服务（分钟刷出 + 离线检测 + 存档清理）
		watchdogService = service.NewLineWatchdogService(
			agent, repoManager, settingsService, sseService, notifier,
			&service.WatchdogConfig{
				FlushInterval:      cfg.Monitor.FlushInterval,
				SweepInterval:      cfg.Monitor.SweepInterval,
				PulseRetentionDays: cfg.Monitor.PulseRetentionDays,
				CleanupInterval:    cfg.Monitor.CleanupInterval,
			},
			systemLogService,
		)

		go func() {
			log.Println("启动产线巡检服务...")
			watchdogService.Start()
		}()

		// 启动日志清理调度器
		go systemLogService.StartCleanupScheduler(context.Background())

		// 报表服务
		reportService := service.NewReportService(agent, repoManager, settingsService)

		// 控制器
		telemetryController := controllers.NewTelemetryController(
			agent, repoManager, settingsService, sseService, notifier, systemLogService)
		lineController := controllers.NewLineController(agent, repoManager, settingsService)
		reportController := controllers.NewReportController(reportService)
		authController := controllers.NewAuthController(cfg.Auth, sessions)
		settingsController := controllers.NewSettingsController(settingsService, cfg.Auth, sessions)
		sseController := controllers.NewSSEController(sseService)

		// 设备上报（固件端不维护会话，免登录，靠校验拒绝非法包）
		r.Post("/data", telemetryController.HandleTelemetry)

		// 登录/登出
		r.Post("/login", authController.Login)
		r.Post("/logout", authController.Logout)

		// 需要会话的看板接口
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession(sessions))

			r.Get("/status", lineController.GetStatus)
			r.Get("/chartdata/{lineId}", lineController.GetChartData)

			r.Get("/report", reportController.GetEventReport)
			r.Get("/report/last30days", reportController.GetDailyReport)

			r.Route("/settings", func(r chi.Router) {
				r.Post("/auth", settingsController.Auth)
				r.Get("/info", settingsController.Info)
				r.Post("/save", settingsController.Save)
			})

			r.Route("/api/sse", func(r chi.Router) {
				r.Get("/lines", sseController.HandleLineEvents)
				r.Get("/system", sseController.HandleSystemEvents)
				r.Get("/stats", sseController.GetConnectionStats)
			})
		})
	}

	return watchdogService
}

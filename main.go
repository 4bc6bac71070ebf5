package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"line-monitor-service/api"
	"line-monitor-service/config"
	"line-monitor-service/service"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

var (
	BASE_CONTEXT = ""
)

func init() {
	if val := os.Getenv("BASE_CONTEXT"); val != "" {
		BASE_CONTEXT = val
	}
}

// @title 产线监控系统 API
// @version 1.0
// @description 挤出产线遥测监控后端服务，提供遥测上报、状态看板、工时报表、运行参数管理等功能
// @BasePath /swagger/line-monitor-service
func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 打印配置信息（在非生产环境）
	if !cfg.IsProduction() {
		cfg.PrintConfig()
	}

	// 初始化数据库连接
	db, err := config.InitDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 确保在程序退出时关闭数据库连接
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// 执行数据库迁移
	if err := config.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化默认产线
	if err := config.SeedLineRoster(db); err != nil {
		log.Fatalf("Failed to seed line roster: %v", err)
	}

	mux := chi.NewRouter()

	var watchdogService *service.LineWatchdogService

	// 如果有BASE_CONTEXT，则在该路径下挂载所有路由
	if BASE_CONTEXT != "" {
		mux.Route(BASE_CONTEXT, func(r chi.Router) {
			subMux := r.(*chi.Mux)
			watchdogService = api.InitRoute(subMux, db, cfg)
			r.Handle("/metrics", promhttp.Handler())
			r.Handle("/swagger*", httpSwagger.WrapHandler)
		})
	} else {
		watchdogService = api.InitRoute(mux, db, cfg)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/swagger*", httpSwagger.WrapHandler)
	}

	// 使用配置中的端口，如果有LISTEN_PORT环境变量则覆盖
	port := cfg.Server.Port
	if val := os.Getenv("LISTEN_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			port = p
		}
	}

	s := daprd.NewServiceWithMux(":"+strconv.Itoa(port), mux)
	log.Printf("Starting server on port %d", port)

	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("error: %v", err)
	}

	// 服务退出前停止巡检并刷出剩余分钟统计
	if watchdogService != nil {
		watchdogService.Stop()
	}
}

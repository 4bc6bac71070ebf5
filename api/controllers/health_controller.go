/*
 * @module api/controllers/health_controller
 * @description 健康检查与服务器时间控制器
 * @architecture 控制器层
 * @documentReference DESIGN-000.md
 * @stateFlow 探活请求 -> 直接响应
 * @rules 健康检查不依赖数据库，供设备与编排探活
 * @dependencies github.com/go-chi/render
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthController 健康检查控制器
type HealthController struct {
	startTime time.Time
}

// NewHealthController 创建健康检查控制器
func NewHealthController() *HealthController {
	return &HealthController{startTime: time.Now()}
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} APIResponse
// @Router /healthz [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, SuccessResponse("ok", map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(c.startTime).String(),
	}))
}

// Time 服务器时间（设备校时用）
// @Summary 服务器时间
// @Tags 系统
// @Produce json
// @Success 200 {object} APIResponse
// @Router /time [get]
func (c *HealthController) Time(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, SuccessResponse("ok", map[string]interface{}{
		"now": time.Now().Unix(),
	}))
}

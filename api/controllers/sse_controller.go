/*
 * @module api/controllers/sse_controller
 * @description SSE控制器 - 产线状态与系统事件实时流
 * @architecture 控制器层
 * @documentReference DESIGN-000.md
 * @stateFlow 客户端连接 -> SSE服务托管 -> 断开清理
 * @rules SSE连接交由服务层托管，控制器只做入口与统计
 * @dependencies service
 */

package controllers

import (
	"log"
	"net/http"

	"line-monitor-service/service"

	"github.com/go-chi/render"
)

// SSEController SSE控制器
type SSEController struct {
	sseService service.SSEService
}

// NewSSEController 创建SSE控制器
func NewSSEController(sseService service.SSEService) *SSEController {
	return &SSEController{sseService: sseService}
}

// HandleLineEvents 产线事件流
// @Summary 产线状态事件流
// @Tags SSE
// @Produce text/event-stream
// @Router /api/sse/lines [get]
func (c *SSEController) HandleLineEvents(w http.ResponseWriter, r *http.Request) {
	if err := c.sseService.HandleLineEvents(w, r); err != nil {
		log.Printf("[SSEController] 产线事件流处理失败: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleSystemEvents 系统事件流
// @Summary 系统事件流
// @Tags SSE
// @Produce text/event-stream
// @Router /api/sse/system [get]
func (c *SSEController) HandleSystemEvents(w http.ResponseWriter, r *http.Request) {
	if err := c.sseService.HandleSystemEvents(w, r); err != nil {
		log.Printf("[SSEController] 系统事件流处理失败: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetConnectionStats 连接统计
// @Summary SSE连接统计
// @Tags SSE
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/sse/stats [get]
func (c *SSEController) GetConnectionStats(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, SuccessResponse("查询成功", c.sseService.GetConnectionStats()))
}

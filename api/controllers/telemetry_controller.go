/*
 * @module api/controllers/telemetry_controller
 * @description 遥测上报控制器，处理设备POST /data数据包
 * @architecture 控制器层
 * @documentReference DESIGN-000.md
 * @stateFlow 请求校验 -> 原始存档 -> 引擎计算 -> 快照更新 -> 状态事件持久化/推送/通知
 * @rules 设备固件不可信，非法包一律400拒绝；存储失败不影响引擎计算结果
 * @dependencies service, repository, models
 */

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"line-monitor-service/client"
	"line-monitor-service/models"
	"line-monitor-service/repository"
	"line-monitor-service/service"

	"github.com/go-chi/render"
)

// TelemetryController 遥测上报控制器
type TelemetryController struct {
	agent      *service.AgentService
	repos      repository.RepositoryManager
	settings   *service.SettingsService
	sseService service.SSEService
	notifier   *client.TelegramClient
	logService service.SystemLogService
}

// NewTelemetryController 创建遥测上报控制器
func NewTelemetryController(
	agent *service.AgentService,
	repos repository.RepositoryManager,
	settings *service.SettingsService,
	sseService service.SSEService,
	notifier *client.TelegramClient,
	logService service.SystemLogService,
) *TelemetryController {
	return &TelemetryController{
		agent:      agent,
		repos:      repos,
		settings:   settings,
		sseService: sseService,
		notifier:   notifier,
		logService: logService,
	}
}

// HandleTelemetry 处理遥测上报
// @Summary 遥测上报
// @Description 接收设备脉冲遥测包，返回平滑速度与当前状态
// @Tags 遥测
// @Accept json
// @Produce json
// @Param request body models.TelemetryRequest true "遥测数据"
// @Success 200 {object} APIResponse{data=models.TelemetryResponse}
// @Failure 400 {object} ErrorResponse
// @Router /data [post]
func (c *TelemetryController) HandleTelemetry(w http.ResponseWriter, r *http.Request) {
	var req models.TelemetryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Render(w, r, BadRequestResponse("请求体解析失败", err))
		return
	}
	if err := req.Validate(); err != nil {
		render.Render(w, r, BadRequestResponse("遥测数据非法", err))
		return
	}

	// 引擎计算（纯内存，不依赖下面的任何存储结果）
	result := c.agent.Ingest(req.LineID, *req.Pulses, *req.Duration, req.Ts)

	ctx := r.Context()

	// 原始存档尽力写入
	archive := &models.PulseRecord{
		LineID:    req.LineID,
		Pulses:    *req.Pulses,
		Duration:  *req.Duration,
		Timestamp: result.Timestamp,
	}
	if err := c.repos.Pulse().Create(ctx, archive); err != nil {
		c.logService.Error("telemetry_controller", "脉冲存档写入失败",
			fmt.Sprintf("产线 %s 存档写入失败", req.LineID), err, service.WithSourceID(req.LineID))
	}

	// 更新产线快照
	if _, err := c.repos.LineStatus().EnsureLine(ctx, req.LineID); err != nil {
		c.logService.Error("telemetry_controller", "快照建行失败",
			fmt.Sprintf("产线 %s 快照建行失败", req.LineID), err, service.WithSourceID(req.LineID))
	}
	fields := map[string]interface{}{
		"last_packet_time": time.Now().Unix(),
	}
	if *req.Pulses > 0 {
		fields["last_pulse_time"] = result.Timestamp
	}
	if result.StateChanged {
		fields["is_running"] = result.State.IsRunning()
	}
	if err := c.repos.LineStatus().UpdateFields(ctx, req.LineID, fields); err != nil {
		c.logService.Error("telemetry_controller", "快照更新失败",
			fmt.Sprintf("产线 %s 快照更新失败", req.LineID), err, service.WithSourceID(req.LineID))
	}

	// 状态切换：事件持久化 + SSE推送 + Telegram通知
	if result.StateChanged {
		c.recordTransition(r, result)
	}

	render.Render(w, r, SuccessResponse("上报成功", &models.TelemetryResponse{
		LineID:       result.LineID,
		Speed:        result.Speed,
		IsRunning:    result.State.IsRunning(),
		StateChanged: result.StateChanged,
	}))
}

// recordTransition 记录一次状态切换
func (c *TelemetryController) recordTransition(r *http.Request, result service.IngestResult) {
	settings := c.settings.Current()
	product := settings.Product(result.LineID)

	entry := &models.StateLog{
		LineID:      result.LineID,
		Timestamp:   result.Timestamp,
		IsRunning:   result.State.IsRunning(),
		ProductName: product,
	}
	if err := c.repos.StateLog().Append(r.Context(), entry); err != nil {
		c.logService.Error("telemetry_controller", "状态日志写入失败",
			fmt.Sprintf("产线 %s 状态切换事件写入失败", result.LineID), err,
			service.WithSourceID(result.LineID))
	}

	_ = c.sseService.BroadcastLineUpdate(&service.LineEvent{
		LineID:      result.LineID,
		DisplayName: settings.DisplayName(result.LineID),
		IsRunning:   result.State.IsRunning(),
		Speed:       result.Speed,
		Product:     product,
		Reason:      "telemetry",
		Timestamp:   result.Timestamp,
	})

	action := "停机"
	if result.State.IsRunning() {
		action = "启动"
	}
	text := fmt.Sprintf("产线 %s：%s", settings.DisplayName(result.LineID), action)
	if product != "" {
		text = fmt.Sprintf("产线 %s（产品：%s）：%s", settings.DisplayName(result.LineID), product, action)
	}
	c.notifier.NotifyAsync(settings.TelegramToken, settings.TelegramChatID, text)
}

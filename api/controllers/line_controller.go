/*
 * @module api/controllers/line_controller
 * @description 产线查询控制器：看板状态列表与单线图表数据
 * @architecture 控制器层
 * @documentReference DESIGN-000.md
 * @stateFlow 看板请求 -> 快照+引擎运行态合并 -> 响应
 * @rules 离线产线（超过offlineTimeout无数据）状态文案为"无数据"；enabledLines只影响展示标记
 * @dependencies service, repository, models
 */

package controllers

import (
	"net/http"
	"time"

	"line-monitor-service/models"
	"line-monitor-service/repository"
	"line-monitor-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// 状态文案
const (
	stateLabelRunning = "运行中"
	stateLabelStopped = "已停机"
	stateLabelNoData  = "无数据"
)

// ChartDataResponse 单线图表数据（GET /chartdata/{lineId} 响应）
type ChartDataResponse struct {
	LineID string                `json:"lineId"` // 产线ID
	Name   string                `json:"name"`   // 显示名称
	Speed  *service.SpeedSeries  `json:"speed"`  // 分钟速度曲线
	Status []service.DayWorkIdle `json:"status"` // 30天每日工时
}

// LineController 产线查询控制器
type LineController struct {
	agent    *service.AgentService
	repos    repository.RepositoryManager
	settings *service.SettingsService
}

// NewLineController 创建产线查询控制器
func NewLineController(agent *service.AgentService, repos repository.RepositoryManager, settings *service.SettingsService) *LineController {
	return &LineController{
		agent:    agent,
		repos:    repos,
		settings: settings,
	}
}

// GetStatus 看板状态列表
// @Summary 产线状态列表
// @Description 返回全部产线的当前状态（含速度、状态文案与产品）
// @Tags 产线
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.LineStatusView}
// @Router /status [get]
func (c *LineController) GetStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := c.repos.LineStatus().FindAll(r.Context())
	if err != nil {
		render.Render(w, r, InternalErrorResponse("状态查询失败", err))
		return
	}

	settings := c.settings.Current()
	now := time.Now().Unix()

	// 引擎运行态优先于数据库快照
	runtimeByLine := make(map[string]service.LineSnapshot)
	for _, snap := range c.agent.Snapshot() {
		runtimeByLine[snap.LineID] = snap
	}

	views := make([]*models.LineStatusView, 0, len(statuses))
	for _, status := range statuses {
		view := &models.LineStatusView{
			LineID:         status.LineID,
			Name:           settings.DisplayName(status.LineID),
			Enabled:        settings.IsLineEnabled(status.LineID),
			IsRunning:      status.IsRunning,
			Product:        settings.Product(status.LineID),
			LastPulseTime:  status.LastPulseTime,
			LastPacketTime: status.LastPacketTime,
		}

		if snap, ok := runtimeByLine[status.LineID]; ok {
			view.Speed = snap.Speed
			view.IsRunning = snap.State.IsRunning()
			if snap.LastPacketTime > view.LastPacketTime {
				view.LastPacketTime = snap.LastPacketTime
			}
		}

		switch {
		case view.LastPacketTime == 0 || now-view.LastPacketTime > int64(settings.OfflineTimeout):
			view.StateLabel = stateLabelNoData
		case view.IsRunning:
			view.StateLabel = stateLabelRunning
		default:
			view.StateLabel = stateLabelStopped
		}

		views = append(views, view)
	}

	render.Render(w, r, SuccessResponse("查询成功", views))
}

// GetChartData 单线图表数据
// @Summary 产线图表数据
// @Description 返回分钟速度曲线（graphHours跨度）与最近30天每日工时
// @Tags 产线
// @Produce json
// @Param lineId path string true "产线ID"
// @Success 200 {object} APIResponse{data=ChartDataResponse}
// @Failure 400 {object} ErrorResponse
// @Router /chartdata/{lineId} [get]
func (c *LineController) GetChartData(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineId")
	if lineID == "" {
		render.Render(w, r, BadRequestResponse("产线ID不能为空", nil))
		return
	}

	settings := c.settings.Current()

	series, err := c.agent.GetSeries(r.Context(), lineID, settings.GraphHours)
	if err != nil {
		render.Render(w, r, InternalErrorResponse("速度曲线查询失败", err))
		return
	}

	daily, err := c.agent.GetDailyWorkIdle(r.Context(), lineID, 30)
	if err != nil {
		render.Render(w, r, InternalErrorResponse("工时统计查询失败", err))
		return
	}

	render.Render(w, r, SuccessResponse("查询成功", &ChartDataResponse{
		LineID: lineID,
		Name:   settings.DisplayName(lineID),
		Speed:  series,
		Status: daily,
	}))
}

/*
 * @module api/controllers/settings_controller
 * @description 设置页控制器：二次确认、参数查询、参数保存
 * @architecture 控制器层
 * @documentReference DESIGN-000.md
 * @stateFlow 二次确认 -> 会话标记 -> 参数查询/保存 -> 引擎热更新
 * @rules 设置页在登录会话之上需要单独密码二次确认；保存校验失败拒绝落库
 * @dependencies service, api/middleware, config
 */

package controllers

import (
	"encoding/json"
	"net/http"

	"line-monitor-service/api/middleware"
	"line-monitor-service/config"
	"line-monitor-service/models"
	"line-monitor-service/service"

	"github.com/go-chi/render"
)

// SettingsAuthRequest 设置页二次确认请求
type SettingsAuthRequest struct {
	Password string `json:"password"` // 设置页密码
}

// SettingsController 设置页控制器
type SettingsController struct {
	settings   *service.SettingsService
	authConfig config.AuthConfig
	sessions   *middleware.SessionStore
}

// NewSettingsController 创建设置页控制器
func NewSettingsController(settings *service.SettingsService, authConfig config.AuthConfig, sessions *middleware.SessionStore) *SettingsController {
	return &SettingsController{
		settings:   settings,
		authConfig: authConfig,
		sessions:   sessions,
	}
}

// Auth 设置页二次确认
// @Summary 设置页二次确认
// @Tags 设置
// @Accept json
// @Produce json
// @Param request body SettingsAuthRequest true "设置页密码"
// @Success 200 {object} APIResponse
// @Failure 401 {object} ErrorResponse
// @Router /settings/auth [post]
func (c *SettingsController) Auth(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		render.Render(w, r, UnauthorizedResponse("未登录", nil))
		return
	}

	var req SettingsAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Render(w, r, BadRequestResponse("请求体解析失败", err))
		return
	}
	if req.Password != c.authConfig.SettingsPassword {
		render.Render(w, r, UnauthorizedResponse("设置密码错误", nil))
		return
	}

	c.sessions.GrantSettingsAuth(session.ID)
	render.Render(w, r, SuccessResponse("确认成功", nil))
}

// requireSettingsAuth 校验会话是否已二次确认
func (c *SettingsController) requireSettingsAuth(w http.ResponseWriter, r *http.Request) bool {
	session := middleware.SessionFromContext(r.Context())
	if session == nil || !session.SettingsAuth {
		render.Render(w, r, ForbiddenResponse("需要先通过设置页确认", nil))
		return false
	}
	return true
}

// Info 当前运行时参数
// @Summary 查询运行时参数
// @Tags 设置
// @Produce json
// @Success 200 {object} APIResponse{data=models.RuntimeSettings}
// @Failure 403 {object} ErrorResponse
// @Router /settings/info [get]
func (c *SettingsController) Info(w http.ResponseWriter, r *http.Request) {
	if !c.requireSettingsAuth(w, r) {
		return
	}

	render.Render(w, r, SuccessResponse("查询成功", c.settings.Current()))
}

// Save 保存运行时参数
// @Summary 保存运行时参数
// @Tags 设置
// @Accept json
// @Produce json
// @Param request body models.RuntimeSettings true "运行时参数"
// @Success 200 {object} APIResponse
// @Failure 400 {object} ErrorResponse
// @Router /settings/save [post]
func (c *SettingsController) Save(w http.ResponseWriter, r *http.Request) {
	if !c.requireSettingsAuth(w, r) {
		return
	}

	var settings models.RuntimeSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		render.Render(w, r, BadRequestResponse("请求体解析失败", err))
		return
	}

	if err := c.settings.Save(r.Context(), settings); err != nil {
		render.Render(w, r, BadRequestResponse("参数保存失败", err))
		return
	}

	render.Render(w, r, SuccessResponse("保存成功", c.settings.Current()))
}

/*
 * @module api/controllers/auth_controller
 * @description 登录认证控制器：看板登录/登出
 * @architecture 控制器层
 * @documentReference DESIGN-000.md
 * @stateFlow 登录请求 -> 凭据校验 -> 会话创建 -> Cookie下发
 * @rules 凭据来自环境变量配置；登录失败统一返回401不区分原因
 * @dependencies api/middleware, config
 */

package controllers

import (
	"encoding/json"
	"net/http"

	"line-monitor-service/api/middleware"
	"line-monitor-service/config"

	"github.com/go-chi/render"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"` // 用户名
	Password string `json:"password"` // 密码
}

// AuthController 登录认证控制器
type AuthController struct {
	authConfig config.AuthConfig
	sessions   *middleware.SessionStore
}

// NewAuthController 创建登录认证控制器
func NewAuthController(authConfig config.AuthConfig, sessions *middleware.SessionStore) *AuthController {
	return &AuthController{
		authConfig: authConfig,
		sessions:   sessions,
	}
}

// Login 看板登录
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录凭据"
// @Success 200 {object} APIResponse
// @Failure 401 {object} ErrorResponse
// @Router /login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Render(w, r, BadRequestResponse("请求体解析失败", err))
		return
	}

	if req.Username != c.authConfig.Username || req.Password != c.authConfig.Password {
		render.Render(w, r, UnauthorizedResponse("用户名或密码错误", nil))
		return
	}

	session := c.sessions.Create(req.Username)
	middleware.SetSessionCookie(w, session)

	render.Render(w, r, SuccessResponse("登录成功", map[string]interface{}{
		"username": session.Username,
	}))
}

// Logout 登出
// @Summary 登出
// @Tags 认证
// @Produce json
// @Success 200 {object} APIResponse
// @Router /logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if session := c.sessions.SessionFromRequest(r); session != nil {
		c.sessions.Delete(session.ID)
	}
	middleware.ClearSessionCookie(w)

	render.Render(w, r, SuccessResponse("已登出", nil))
}

/*
 * @module api/middleware/session
 * @description 会话中间件 - 基于Cookie的内存会话管理与登录保护
 * @architecture 中间件层
 * @documentReference DESIGN-000.md
 * @stateFlow 登录 -> 会话创建 -> Cookie下发 -> 受保护路由校验 -> 过期清理
 * @rules 会话ID使用UUID；设置页需要在会话上二次确认；会话仅存于内存，重启后需重新登录
 * @dependencies github.com/google/uuid
 */

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName 会话Cookie名称
const SessionCookieName = "sid"

// 上下文键类型
type contextKey string

// SessionContextKey 会话上下文键
const SessionContextKey contextKey = "session"

// Session 登录会话
type Session struct {
	ID           string    // 会话ID
	Username     string    // 登录用户名
	SettingsAuth bool      // 设置页是否已二次确认
	CreatedAt    time.Time // 创建时间
	ExpiresAt    time.Time // 过期时间
}

// SessionStore 内存会话存储
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewSessionStore 创建会话存储
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create 创建新会话并返回会话ID
func (s *SessionStore) Create(username string) *Session {
	session := &Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

// Get 查询会话，过期会话视为不存在并顺带清理
func (s *SessionStore) Get(id string) *Session {
	if id == "" {
		return nil
	}

	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if time.Now().After(session.ExpiresAt) {
		s.Delete(id)
		return nil
	}
	return session
}

// Delete 删除会话（登出）
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// GrantSettingsAuth 在会话上标记设置页已二次确认
func (s *SessionStore) GrantSettingsAuth(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return false
	}
	session.SettingsAuth = true
	return true
}

// SessionFromContext 从上下文获取会话
func SessionFromContext(ctx context.Context) *Session {
	if session, ok := ctx.Value(SessionContextKey).(*Session); ok {
		return session
	}
	return nil
}

// SessionFromRequest 从请求Cookie解析会话
func (s *SessionStore) SessionFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	return s.Get(cookie.Value)
}

// RequireSession 强制会话中间件：没有有效会话返回401
func RequireSession(store *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := store.SessionFromRequest(r)
			if session == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie 下发会话Cookie
func SetSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
}

// ClearSessionCookie 清除会话Cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

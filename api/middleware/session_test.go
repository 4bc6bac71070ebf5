package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := NewSessionStore(time.Hour)

	session := store.Create("admin")
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "admin", session.Username)
	assert.False(t, session.SettingsAuth)

	got := store.Get(session.ID)
	assert.Equal(t, session, got)
	assert.Nil(t, store.Get(""))
	assert.Nil(t, store.Get("unknown"))
}

func TestSessionStore_过期会话视为不存在(t *testing.T) {
	store := NewSessionStore(time.Hour)

	session := store.Create("admin")
	session.ExpiresAt = time.Now().Add(-time.Minute)

	assert.Nil(t, store.Get(session.ID))
	// 过期会话顺带清理，二次确认也失败
	assert.False(t, store.GrantSettingsAuth(session.ID))
}

func TestSessionStore_GrantSettingsAuth(t *testing.T) {
	store := NewSessionStore(time.Hour)

	session := store.Create("admin")
	assert.True(t, store.GrantSettingsAuth(session.ID))
	assert.True(t, store.Get(session.ID).SettingsAuth)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(time.Hour)

	session := store.Create("admin")
	store.Delete(session.ID)
	assert.Nil(t, store.Get(session.ID))
}

func TestRequireSession(t *testing.T) {
	store := NewSessionStore(time.Hour)
	session := store.Create("admin")

	handler := RequireSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := SessionFromContext(r.Context())
		assert.NotNil(t, got)
		assert.Equal(t, session.ID, got.ID)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("无Cookie返回401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("非法会话ID返回401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("有效会话放行并注入上下文", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

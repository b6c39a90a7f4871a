package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/ortosupport/course-assistant/database/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*gin.Engine, *Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	manager := NewManager(NewRedisBackend(client), 0)
	store := NewStore(manager, []byte("test-secret"))

	engine := gin.New()
	engine.Use(sessions.Sessions(CookieName, store))
	engine.POST("/login/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		if err := SetLoginUser(c, &model.User{Id: id}); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	engine.GET("/whoami", func(c *gin.Context) {
		id, ok := GetLoginUserID(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, strconv.Itoa(id))
	})
	engine.POST("/logout", func(c *gin.Context) {
		if err := ClearSession(c); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	return engine, manager
}

func do(engine *gin.Engine, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestStoreLoginRoundTrip(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := do(engine, http.MethodGet, "/whoami")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies(), "anonymous requests do not get a session")

	w = do(engine, http.MethodPost, "/login/7")
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Greater(t, cookie.MaxAge, 0)

	w = do(engine, http.MethodGet, "/whoami", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Body.String())
}

func TestStoreLogoutDestroysToken(t *testing.T) {
	engine, _ := newTestEngine(t)

	cookie := sessionCookie(t, do(engine, http.MethodPost, "/login/3"))

	w := do(engine, http.MethodPost, "/logout", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, sessionCookie(t, w).MaxAge)

	w = do(engine, http.MethodGet, "/whoami", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "old cookie must not resolve after logout")
}

func TestStoreRejectsTamperedCookie(t *testing.T) {
	engine, _ := newTestEngine(t)

	cookie := sessionCookie(t, do(engine, http.MethodPost, "/login/5"))
	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"

	w := do(engine, http.MethodGet, "/whoami", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStoreNewLoginIssuesNewToken(t *testing.T) {
	engine, manager := newTestEngine(t)

	first := sessionCookie(t, do(engine, http.MethodPost, "/login/1"))
	second := sessionCookie(t, do(engine, http.MethodPost, "/login/2", first))
	assert.NotEqual(t, first.Value, second.Value)

	w := do(engine, http.MethodGet, "/whoami", second)
	assert.Equal(t, "2", w.Body.String())

	w = do(engine, http.MethodGet, "/whoami", first)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "replaced session must be destroyed")

	_, ok := manager.Resolve(context.Background(), "not-a-token")
	assert.False(t, ok)
}

func TestStoreLoginRotatesTokenForSameUser(t *testing.T) {
	engine, _ := newTestEngine(t)

	first := sessionCookie(t, do(engine, http.MethodPost, "/login/4"))
	second := sessionCookie(t, do(engine, http.MethodPost, "/login/4", first))
	assert.NotEqual(t, first.Value, second.Value)

	assert.Equal(t, "4", do(engine, http.MethodGet, "/whoami", second).Body.String())
	assert.Equal(t, http.StatusUnauthorized, do(engine, http.MethodGet, "/whoami", first).Code)
}

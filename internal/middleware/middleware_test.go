package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Neeraj-1996/mlmbackend/internal/config"
	"github.com/Neeraj-1996/mlmbackend/internal/domain"
	"github.com/Neeraj-1996/mlmbackend/internal/response"
	"github.com/Neeraj-1996/mlmbackend/internal/store"
	"github.com/Neeraj-1996/mlmbackend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var tokens = config.TokenConfig{
	AccessSecret:  "access",
	AccessTTL:     time.Minute,
	RefreshSecret: "refresh",
	RefreshTTL:    time.Hour,
}

type fakeUsers map[uint]*domain.User

func (f fakeUsers) FindByID(_ context.Context, id uint) (*domain.User, error) {
	if id == 500 {
		return nil, errors.New("connection refused")
	}
	u, ok := f[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func do(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, response.Envelope) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env response.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func protected(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/me", func(c *gin.Context) {
		id, _ := UserID(c)
		response.OK(c, http.StatusOK, id, "ok")
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := protected(JWTAuthMiddleware(tokens))
	token, err := utils.GenerateAccessToken(&domain.User{ID: 7, Username: "alice"}, tokens)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, env := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), env.Data)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	w, _ = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	refresh, err := utils.GenerateRefreshToken(&domain.User{ID: 7}, tokens)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w, _ = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens are not access tokens")
}

func TestAdminOnlyMiddleware(t *testing.T) {
	users := fakeUsers{
		1: {ID: 1, Role: domain.RoleAdmin},
		2: {ID: 2, Role: domain.RoleUser},
	}
	as := func(id uint) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set(ContextUserID, id) }
	}
	tests := []struct {
		name   string
		mw     []gin.HandlerFunc
		status int
	}{
		{"admin", []gin.HandlerFunc{as(1), AdminOnlyMiddleware(users)}, http.StatusOK},
		{"user", []gin.HandlerFunc{as(2), AdminOnlyMiddleware(users)}, http.StatusForbidden},
		{"deleted", []gin.HandlerFunc{as(3), AdminOnlyMiddleware(users)}, http.StatusForbidden},
		{"store down", []gin.HandlerFunc{as(500), AdminOnlyMiddleware(users)}, http.StatusInternalServerError},
		{"anonymous", []gin.HandlerFunc{AdminOnlyMiddleware(users)}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(protected(tt.mw...), httptest.NewRequest(http.MethodGet, "/me", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := protected(rl.Middleware())

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.RemoteAddr = ip + ":1234"
		w, _ := do(r, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.2"), "buckets are per IP")
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.limiter("a")

	now = now.Add(time.Hour)
	rl.limiter("b")
	rl.Cleanup()

	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	r := protected(m.Middleware())
	r.GET("/metrics", gin.WrapH(m.Handler()))

	do(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	w, _ := do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `mlmbackend_http_requests_total{method="GET",path="/me",status="200"} 1`), body)
	assert.Contains(t, body, "mlmbackend_http_request_duration_seconds")
}

func TestCORS(t *testing.T) {
	r := protected(CORS([]string{"https://app.example"}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Origin", "https://app.example")
	w, _ := do(r, req)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Origin", "https://evil.example")
	w, _ = do(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	open := protected(CORS([]string{"*"}))
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Origin", "https://anything.example")
	w, _ = do(open, req)
	assert.Equal(t, "https://anything.example", w.Header().Get("Access-Control-Allow-Origin"))
}

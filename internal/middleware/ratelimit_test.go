package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ipguard/internal/database/redis/repository"
	"ipguard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeQuota 以記憶體計數模擬固定視窗限流
type fakeQuota struct {
	taken map[string]int
	err   error
}

func newFakeQuota() *fakeQuota {
	return &fakeQuota{taken: make(map[string]int)}
}

func (f *fakeQuota) Take(ctx context.Context, limiterName, key string, limitCount int, window time.Duration) (int, int64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	counterKey := limiterName + ":" + key
	f.taken[counterKey]++
	remaining := limitCount - f.taken[counterKey]
	if remaining < 0 {
		return 0, 30, repository.ErrRateLimitExceeded
	}
	return remaining, 30, nil
}

func newRateLimitRouter(t *testing.T, quota QuotaTaker, keyFn KeyFunc, limit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	rl := NewRateLimit(trace, telemetry.NewMetric(nil), zap.NewNop(), quota)
	recovery := NewRecovery(zap.NewNop())

	r := gin.New()
	r.Use(recovery.ErrorHandler())
	r.POST("/login",
		rl.Guard("login_ip", http.MethodPost, keyFn, limit, time.Minute),
		func(c *gin.Context) { c.String(http.StatusOK, "ok") },
	)
	return r
}

func doLogin(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitGuard_AllowsUnderLimit(t *testing.T) {
	keyFn := func(c *gin.Context) string { return "203.0.113.7" }
	r := newRateLimitRouter(t, newFakeQuota(), keyFn, 5)

	for i := 0; i < 5; i++ {
		w := doLogin(r)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimitGuard_BlocksOverLimit(t *testing.T) {
	keyFn := func(c *gin.Context) string { return "203.0.113.7" }
	r := newRateLimitRouter(t, newFakeQuota(), keyFn, 5)

	for i := 0; i < 5; i++ {
		doLogin(r)
	}
	w := doLogin(r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestRateLimitGuard_SeparateKeysSeparateQuota(t *testing.T) {
	ip := "203.0.113.7"
	keyFn := func(c *gin.Context) string { return ip }
	r := newRateLimitRouter(t, newFakeQuota(), keyFn, 2)

	doLogin(r)
	doLogin(r)
	assert.Equal(t, http.StatusTooManyRequests, doLogin(r).Code)

	ip = "203.0.113.8"
	assert.Equal(t, http.StatusOK, doLogin(r).Code)
}

func TestRateLimitGuard_MethodMismatchSkips(t *testing.T) {
	gin.SetMode(gin.TestMode)
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	quota := newFakeQuota()
	rl := NewRateLimit(trace, telemetry.NewMetric(nil), zap.NewNop(), quota)

	r := gin.New()
	r.GET("/login",
		rl.Guard("login_ip", http.MethodPost, func(c *gin.Context) string { return "k" }, 1, time.Minute),
		func(c *gin.Context) { c.String(http.StatusOK, "ok") },
	)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Empty(t, quota.taken)
}

func TestRateLimitGuard_EmptyKeySkips(t *testing.T) {
	quota := newFakeQuota()
	keyFn := func(c *gin.Context) string { return "" }
	r := newRateLimitRouter(t, quota, keyFn, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doLogin(r).Code)
	}
	assert.Empty(t, quota.taken)
}

func TestRateLimitGuard_CounterFailureFailsOpen(t *testing.T) {
	quota := newFakeQuota()
	quota.err = errors.New("redis down")
	keyFn := func(c *gin.Context) string { return "203.0.113.7" }
	r := newRateLimitRouter(t, quota, keyFn, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doLogin(r).Code)
	}
}

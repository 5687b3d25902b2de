package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"ipguard/internal/core"
	"ipguard/internal/database/redis/repository"
	cErr "ipguard/internal/pkg/error"
	"ipguard/internal/pkg/response"
	"ipguard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuotaTaker 消耗一次配額並回報剩餘量；實作為 redis RateLimiterRepository
type QuotaTaker interface {
	Take(ctx context.Context, limiterName, key string, limitCount int, window time.Duration) (int, int64, error)
}

// KeyFunc 從請求解出限流 key；回空字串表示此 guard 不適用（直接放行）
type KeyFunc func(c *gin.Context) string

type RateLimit struct {
	trace  *telemetry.Trace
	metric *telemetry.Metric
	logger *zap.Logger
	quota  QuotaTaker
}

func NewRateLimit(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	quota QuotaTaker,
) *RateLimit {
	return &RateLimit{trace: trace, metric: metric, logger: logger, quota: quota}
}

// Guard 對符合 method 的請求套用固定視窗限流。
// 同一路由可掛多個 guard（例如 IP 與 userID 各一套額度），全部通過才放行。
func (middleware *RateLimit) Guard(limiterName, method string, keyFn KeyFunc, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if method != "" && c.Request.Method != method {
			c.Next()
			return
		}
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRateLimitGuard))

		remaining, ttlSec, err := middleware.quota.Take(ctx, limiterName, key, limit, window)
		if err != nil && !errors.Is(err, repository.ErrRateLimitExceeded) {
			// 計數器故障不阻斷主流程
			middleware.logger.Error("rate limiter unavailable",
				zap.String("limiter", limiterName),
				zap.Error(err),
			)
			end(nil)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if ttlSec > 0 {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(ttlSec, 10))
		}

		blocked := errors.Is(err, repository.ErrRateLimitExceeded)
		middleware.trace.ApplyTraceAttributes(span, core.TraceRateLimitMeta{
			Limiter:   limiterName,
			Key:       key,
			Limit:     limit,
			WindowSec: int64(window.Seconds()),
			Remaining: remaining,
			TTL:       ttlSec,
			Blocked:   blocked,
			Op:        "guard",
		})

		if blocked {
			if ttlSec > 0 {
				c.Header("Retry-After", strconv.FormatInt(ttlSec, 10))
			}
			if middleware.metric != nil && middleware.metric.RateLimitedTotal != nil {
				middleware.metric.RateLimitedTotal.WithLabelValues(limiterName).Inc()
			}
			rlErr := cErr.RateLimitExceeded("rate limit exceeded")
			response.AbortWithError(c, rlErr)
			end(rlErr)
			return
		}
		end(nil)
		c.Next()
	}
}

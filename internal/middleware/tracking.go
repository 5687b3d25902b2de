package middleware

import (
	"net/http"
	"strings"

	"ipguard/config"
	"ipguard/internal/core"
	fluentdModel "ipguard/internal/database/fluentd/model"
	"ipguard/internal/service"
	"ipguard/internal/service/geo"
	"ipguard/internal/telemetry"
	"ipguard/utils/iputil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 封鎖回應固定為這段 HTML
const blockedResponseBody = "<h1>403 Forbidden</h1><p>Your IP address has been blocked.</p>"

// ContextClientIPKey gin context 內的客戶端 IP（由 Tracking 解析）
const ContextClientIPKey = "clientIP"

// Tracking 是流量入口的核心中介層：
// 解析客戶端 IP → 封鎖名單檢查 → 地理位置解析 → 寫入請求紀錄。
// 被封鎖的請求回 403 後即中止，不留請求紀錄。
type Tracking struct {
	trace      *telemetry.Trace
	metric     *telemetry.Metric
	logger     *zap.Logger
	config     *config.Configuration
	blocklist  *service.BlocklistService
	geoService *geo.Service
	requestLog *service.RequestLogService
	audit      service.AuditSink
}

func NewTracking(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	config *config.Configuration,
	blocklist *service.BlocklistService,
	geoService *geo.Service,
	requestLog *service.RequestLogService,
	audit service.AuditSink,
) *Tracking {
	return &Tracking{
		trace:      trace,
		metric:     metric,
		logger:     logger,
		config:     config,
		blocklist:  blocklist,
		geoService: geoService,
		requestLog: requestLog,
		audit:      audit,
	}
}

func (m *Tracking) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 內部營運端點（監控、文件、探針）不經過封鎖與記錄流程；
		// 對外流量一律走完整 pipeline
		endpoint := c.FullPath()
		if strings.HasPrefix(endpoint, "/swagger") ||
			strings.HasPrefix(endpoint, "/metrics") ||
			strings.HasPrefix(endpoint, "/version") ||
			strings.HasPrefix(endpoint, "/health-check") {
			c.Next()
			return
		}

		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanTrackingMiddleware))

		clientIP := iputil.ClientIP(c.Request.Header, c.Request.RemoteAddr)
		c.Set(ContextClientIPKey, clientIP)
		path := c.Request.URL.Path

		blocked, err := m.blocklist.IsBlocked(ctx, clientIP)
		if err != nil {
			// 名單查不到就放行，封鎖是保護機制而非硬相依
			m.logger.Error("blocklist check failed", zap.String("ip", clientIP), zap.Error(err))
			blocked = false
		}
		if blocked {
			m.logger.Warn("blocked request rejected",
				zap.String("ip", clientIP),
				zap.String("path", path),
			)
			if m.metric != nil && m.metric.BlockedTotal != nil {
				m.metric.BlockedTotal.WithLabelValues(endpoint).Inc()
			}
			if auditErr := m.audit.LogEvent(ctx, fluentdModel.AuditLog{
				Event:     "request_blocked",
				IPAddress: clientIP,
				Path:      path,
			}); auditErr != nil {
				m.logger.Warn("audit request_blocked failed", zap.Error(auditErr))
			}
			m.trace.ApplyTraceAttributes(span, core.TraceTrackingMeta{
				ClientIP: clientIP,
				Path:     path,
				Blocked:  true,
			})
			end(nil)
			c.Data(http.StatusForbidden, "text/html; charset=utf-8", []byte(blockedResponseBody))
			c.Abort()
			return
		}

		location := m.geoService.Locate(ctx, clientIP)
		m.requestLog.LogRequest(ctx, clientIP, path, c.Request.UserAgent(), location)

		meta := core.TraceTrackingMeta{
			ClientIP: clientIP,
			Path:     path,
			Blocked:  false,
		}
		if location.Country != nil {
			meta.Country = *location.Country
		}
		if location.City != nil {
			meta.City = *location.City
		}
		m.trace.ApplyTraceAttributes(span, meta)
		end(nil)
		c.Next()
	}
}

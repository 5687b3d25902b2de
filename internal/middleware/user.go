package middleware

import (
	"strings"

	"ipguard/config"
	"ipguard/internal/core"
	"ipguard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// ContextUserIDKey / ContextUsernameKey gin context 內的用戶身分（由 User middleware 解析）
const (
	ContextUserIDKey   = "userID"
	ContextUsernameKey = "username"
)

// User 解析 Authorization Bearer token，成功就把用戶身分放進 context。
// 解析失敗視為匿名請求放行，不中止；要不要強制驗證由各路由自行決定。
type User struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
}

func NewUser(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
) *User {
	return &User{logger: logger, trace: trace, config: config}
}

func (m *User) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanUserMiddleware))

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.trace.ApplyTraceAttributes(span, core.TraceUserMiddlewareMeta{Status: "anonymous"})
			end(nil)
			c.Next()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &core.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.config.App.SecretKey), nil
		})
		if err != nil || !token.Valid || claims.UserID == "" {
			m.logger.Debug("bearer token rejected", zap.Error(err))
			m.trace.ApplyTraceAttributes(span, core.TraceUserMiddlewareMeta{Status: "invalid_token"})
			end(nil)
			c.Next()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		m.trace.ApplyTraceAttributes(span, core.TraceUserMiddlewareMeta{
			UserID: claims.UserID,
			Status: "authenticated",
		})
		end(nil)
		c.Next()
	}
}

package router

import (
	"net/http"
	"time"

	"ipguard/config"
	"ipguard/internal/handler"
	"ipguard/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AuthRouter struct {
	authHandler *handler.AuthHandler
	rateLimit   *middleware.RateLimit
	config      *config.Configuration
}

func NewAuthRouter(
	authHandler *handler.AuthHandler,
	rateLimit *middleware.RateLimit,
	config *config.Configuration,
) *AuthRouter {
	return &AuthRouter{
		authHandler: authHandler,
		rateLimit:   rateLimit,
		config:      config,
	}
}

// RegisterRoutes 登入端點掛兩層限流：
//   - 匿名流量以客戶端 IP 計數
//   - 已驗證用戶另以 userID 計數（較寬鬆的額度）
//
// 兩者都只對 POST 計數。
func (ar *AuthRouter) RegisterRoutes(r *gin.Engine) {
	ipKey := func(c *gin.Context) string {
		// 已驗證用戶改走 userID 額度
		if _, authenticated := c.Get(middleware.ContextUserIDKey); authenticated {
			return ""
		}
		if v, ok := c.Get(middleware.ContextClientIPKey); ok {
			if ip, ok := v.(string); ok {
				return ip
			}
		}
		return c.ClientIP()
	}
	userKey := func(c *gin.Context) string {
		if v, ok := c.Get(middleware.ContextUserIDKey); ok {
			if uid, ok := v.(string); ok {
				return uid
			}
		}
		return ""
	}

	r.POST("/login",
		ar.rateLimit.Guard("login_ip", http.MethodPost, ipKey, ar.config.RateLimit.AnonymousOrDefault(), time.Minute),
		ar.rateLimit.Guard("login_user", http.MethodPost, userKey, ar.config.RateLimit.UserOrDefault(), time.Minute),
		ar.authHandler.Login,
	)
}

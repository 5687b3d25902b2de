package router

import (
	"ipguard/internal/handler"

	"github.com/gin-gonic/gin"
)

type AdminRouter struct {
	adminHandler *handler.AdminHandler
}

func NewAdminRouter(adminHandler *handler.AdminHandler) *AdminRouter {
	return &AdminRouter{adminHandler: adminHandler}
}

func (ar *AdminRouter) RegisterRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	{
		admin.GET("/request-logs", ar.adminHandler.ListRequestLogs)
		admin.GET("/blocked-ips", ar.adminHandler.ListBlockedIPs)
		admin.POST("/blocked-ips", ar.adminHandler.BlockIP)
		admin.DELETE("/blocked-ips/:ip", ar.adminHandler.UnblockIP)
		admin.GET("/suspicious-ips", ar.adminHandler.ListSuspiciousIPs)
		admin.POST("/detector/run", ar.adminHandler.RunDetector)
	}
}

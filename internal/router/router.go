package router

import (
	"net/http"

	docs "ipguard/cmd/docs"
	"ipguard/config"
	"ipguard/internal/middleware"
	cErr "ipguard/internal/pkg/error"
	"ipguard/internal/pkg/response"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var ProviderSet = wire.NewSet(
	NewRouter,
	NewAdminRouter,
	NewAuthRouter,
	NewHealthRouter,
)

// 透過依賴注入將
func NewRouter(
	config *config.Configuration,
	traceEntry *middleware.TraceEntry,
	recovery *middleware.Recovery,
	cors *middleware.Cors,
	user *middleware.User,
	tracking *middleware.Tracking,
	responseMiddleware *middleware.Response,
	adminRouter *AdminRouter,
	authRouter *AuthRouter,
	healthRouter *HealthRouter,
) *gin.Engine {

	switch config.App.Env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	// 方法不符回 405 而不是 404（例如 GET /login）
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		response.AbortWithError(c, cErr.MethodNotAllowed(c.Request.Method+" is not allowed on "+c.Request.URL.Path))
	})
	router.Use(traceEntry.Handler())
	router.Use(cors.CorsHandler())
	router.Use(recovery.ErrorHandler())
	router.Use(responseMiddleware.FormatHandler())
	router.Use(user.Handler())
	router.Use(tracking.Handler())
	router.GET("/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Response{
			Code:        0,
			Data:        "ok",
			Message:     "success",
			Description: "service is alive",
		})
		c.Abort()
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if config.App.SwaggerEnabled {
		router.GET("/swagger/*any", func(c *gin.Context) {
			docs.SwaggerInfo.Host = c.Request.Host

			if config.App.Env == "production" {
				docs.SwaggerInfo.Schemes = []string{"https"}
				docs.SwaggerInfo.BasePath = "/ipguard/api"
			}
		}, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	authRouter.RegisterRoutes(router)
	adminRouter.RegisterRoutes(router)
	healthRouter.RegisterHealthRoutes(router)
	pprof.Register(router)
	return router
}

package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/Shirovn55/apinganmiu/internal/app/infra/cache"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
	"github.com/Shirovn55/apinganmiu/internal/app/server/handlers/admin"
	"github.com/Shirovn55/apinganmiu/internal/app/server/handlers/check"
	"github.com/Shirovn55/apinganmiu/internal/app/server/handlers/track"
	"github.com/Shirovn55/apinganmiu/internal/app/server/middlewares"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(
	appName, appVersion string,
	checkHandler *check.CheckHandler,
	trackHandler *track.TrackHandler,
	adminHandler *admin.AdminHandler,
	store cache.Store,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.Recovery(log))
	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    appName,
			"version": appVersion,
			"endpoints": []string{
				"POST /api/check-cookie-v2",
				"POST /api/check-cookie",
				"GET /api/spx-track?mvd=",
				"GET /health",
			},
		})
	})

	r.GET("/health", func(c *gin.Context) {
		resp := gin.H{
			"status":  "ok",
			"service": appName,
		}
		if reporter, ok := store.(cache.StatsReporter); ok {
			resp["cache"] = reporter.Stats()
		}
		c.JSON(200, resp)
	})

	api := r.Group("/api")
	{
		api.POST("/check-cookie-v2", checkHandler.CheckV2)
		api.POST("/check-cookie", checkHandler.CheckLegacy)
		api.GET("/spx-track", trackHandler.Track)

		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/add-sheet", adminHandler.AddSheet)
		}
	}

	return r
}

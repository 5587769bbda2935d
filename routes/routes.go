package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"potholemap_server/controllers"
	"potholemap_server/middleware"
	"potholemap_server/websocket"
)

func Setup(router *gin.Engine, h *controllers.Handler, hub *websocket.Hub) {
	router.Use(middleware.CORS(h.Cfg.AllowedOrigins))

	router.Static("/static", h.Cfg.StaticDir)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.Auth(h.Cfg.JWTSecret, h.Users)

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)

		api.GET("/reports", h.ListReports)
		api.GET("/reports/:id", h.GetReport)
		api.GET("/comments", h.ListComments)
		api.GET("/stats", h.GetStats)

		// The realtime feed mirrors the public map, so subscriptions
		// need no auth.
		api.GET("/ws", hub.Handle)

		protected := api.Group("/")
		protected.Use(authRequired)
		{
			protected.GET("/me", h.Me)
			protected.POST("/analyze-image", h.AnalyzeImage)
			protected.POST("/report", h.CreateReport)
			protected.POST("/comment", h.CreateComment)
			protected.POST("/vote", h.CastVote)
		}

		admin := api.Group("/")
		admin.Use(authRequired, middleware.RequireAdmin())
		{
			admin.PUT("/reports/:id/verify", h.VerifyReport)
			admin.GET("/dashboard/stats", h.DashboardStats)
			admin.GET("/dashboard/export", h.ExportData)
			admin.POST("/dashboard/clear-old-data", h.ClearOldData)
			admin.POST("/dashboard/query", h.RunQuery)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
}

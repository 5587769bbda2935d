package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"potholemap_server/ai"
	"potholemap_server/config"
	"potholemap_server/controllers"
	"potholemap_server/logger"
	"potholemap_server/middleware"
	"potholemap_server/routes"
	"potholemap_server/scheduler"
	"potholemap_server/storage"
	"potholemap_server/uploads"
	"potholemap_server/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	users := storage.NewUserStore(db)
	reports := storage.NewReportStore(db)
	engage := storage.NewEngagementStore(db)
	stats := storage.NewStatsStore(db)

	if err := users.EnsureAdmin(cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	uploadManager, err := uploads.New(cfg.StaticDir, cfg.CloudinaryURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	var detector ai.Detector = ai.Disabled{}
	if cfg.DetectorURL != "" {
		detector = ai.NewHTTPDetector(cfg.DetectorURL, cfg.DetectorTimeout, cfg.DetectorMinConf)
		log.Info().Str("url", cfg.DetectorURL).Msg("detection service configured")
	} else {
		log.Warn().Msg("DETECTOR_URL not set, image analysis will return no detections")
	}

	hub := websocket.NewHub()
	go hub.Run()

	scheduler.StartRetention(stats, cfg.RetentionDays)

	router := gin.New()
	router.Use(
		middlewareRecovery(),
		middleware.RequestLogger(),
	)
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	h := controllers.New(cfg, users, reports, engage, stats, hub, detector, uploadManager)
	routes.Setup(router, h, hub)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("addr", addr).Msg("pothole map server starting")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func middlewareRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

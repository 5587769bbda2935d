package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"message":   "AI Pothole Detection Backend is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}

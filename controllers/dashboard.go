package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"potholemap_server/dto"
	"potholemap_server/storage"
)

// retentionWindow is how far back ClearOldData keeps data.
const retentionWindow = 30 * 24 * time.Hour

func (h *Handler) DashboardStats(c *gin.Context) {
	dashboard, err := h.Stats.Dashboard()
	if err != nil {
		log.Error().Err(err).Msg("dashboard stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *Handler) ExportData(c *gin.Context) {
	dump, err := h.Stats.Export()
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dump)
}

func (h *Handler) ClearOldData(c *gin.Context) {
	deleted, err := h.Stats.ClearOlderThan(time.Now().Add(-retentionWindow))
	if err != nil {
		log.Error().Err(err).Msg("data cleanup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Info().Interface("deleted", deleted).Msg("old data cleared")
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Old data cleared successfully",
		"deleted": deleted,
	})
}

// RunQuery is the admin debugging console. The store rejects anything that
// is not a single read-only SELECT.
func (h *Handler) RunQuery(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query"})
		return
	}

	columns, rows, err := h.Stats.Query(req.Query)
	if err != nil {
		if errors.Is(err, storage.ErrQueryNotAllowed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query not allowed"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": columns,
		"data":    rows,
	})
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"potholemap_server/dto"
	"potholemap_server/metrics"
	"potholemap_server/models"
	"potholemap_server/storage"
	"potholemap_server/websocket"
)

const (
	defaultPage  = 1
	defaultLimit = 50
)

func (h *Handler) CreateReport(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	report := models.Report{
		UserID:   user.ID,
		Text:     req.Text,
		Lat:      *req.Lat,
		Lon:      *req.Lon,
		Severity: req.Severity,
		ImageURL: req.ImageURL,
		ThumbURL: req.ThumbURL,
		AIConf:   req.AIConf,
		AIBoxes:  req.Detections,
	}

	row, err := h.Reports.Create(&report)
	if err != nil {
		log.Error().Err(err).Msg("report creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	h.Hub.Broadcast(websocket.EventNewReport, row)
	metrics.ReportsCreatedTotal.WithLabelValues(report.Severity).Inc()
	log.Info().Str("username", user.Username).Uint("report_id", row.ID).Msg("new report added")

	c.JSON(http.StatusOK, row)
}

func (h *Handler) ListReports(c *gin.Context) {
	page := intQuery(c, "page", defaultPage)
	if page < 1 {
		page = defaultPage
	}
	limit := intQuery(c, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > h.Cfg.MaxPageSize {
		limit = h.Cfg.MaxPageSize
	}

	var filter storage.ReportFilter
	if severity := c.Query("severity"); severity != "" {
		if !models.ValidSeverity(severity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid severity filter"})
			return
		}
		filter.Severity = severity
	}
	if verified := c.Query("verified"); verified != "" {
		value, err := strconv.ParseBool(verified)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verified filter"})
			return
		}
		filter.Verified = &value
	}

	rows, total, err := h.Reports.List(filter, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("report listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": rows,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (h *Handler) GetReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	row, err := h.Reports.Get(uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		log.Error().Err(err).Msg("report fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, row)
}

// VerifyReport is admin only, enforced by the route middleware.
func (h *Handler) VerifyReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing verified flag"})
		return
	}

	if err := h.Reports.SetVerified(uint(id), *req.Verified); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		log.Error().Err(err).Msg("report verification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Info().Uint64("report_id", id).Bool("verified", *req.Verified).Msg("report verification updated")
	c.JSON(http.StatusOK, gin.H{"report_id": id, "verified": *req.Verified})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

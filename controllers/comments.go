package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"potholemap_server/dto"
	"potholemap_server/metrics"
	"potholemap_server/storage"
	"potholemap_server/websocket"
)

func (h *Handler) CreateComment(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing text or report_id"})
		return
	}

	row, err := h.Engage.AddComment(user.ID, req.ReportID, req.Text)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		log.Error().Err(err).Msg("comment creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	h.Hub.Broadcast(websocket.EventNewComment, row)
	metrics.CommentsCreatedTotal.Inc()
	log.Info().Str("username", user.Username).Uint("report_id", req.ReportID).Msg("new comment")

	c.JSON(http.StatusOK, row)
}

func (h *Handler) ListComments(c *gin.Context) {
	var reportID uint
	if raw := c.Query("report_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report_id"})
			return
		}
		reportID = uint(id)
	}

	rows, err := h.Engage.ListComments(reportID)
	if err != nil {
		log.Error().Err(err).Msg("comment listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

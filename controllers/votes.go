package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"potholemap_server/dto"
	"potholemap_server/metrics"
	"potholemap_server/models"
	"potholemap_server/storage"
	"potholemap_server/websocket"
)

func (h *Handler) CastVote(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing report_id or vote_type"})
		return
	}
	if !models.ValidVoteType(req.VoteType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote_type"})
		return
	}

	tally, err := h.Engage.CastVote(user.ID, req.ReportID, req.VoteType)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		log.Error().Err(err).Msg("vote failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process vote"})
		return
	}

	// The transaction has committed; subscribers can never observe a
	// tally for state that might roll back.
	h.Hub.Broadcast(websocket.EventVoteUpdate, gin.H{
		"report_id": req.ReportID,
		"upvotes":   tally.Upvotes,
		"downvotes": tally.Downvotes,
	})
	metrics.VotesCastTotal.WithLabelValues(req.VoteType).Inc()
	log.Info().
		Str("username", user.Username).
		Str("vote_type", req.VoteType).
		Uint("report_id", req.ReportID).
		Msg("vote cast")

	c.JSON(http.StatusOK, tally)
}

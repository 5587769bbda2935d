package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (h *Handler) GetStats(c *gin.Context) {
	overview, err := h.Stats.Overview()
	if err != nil {
		log.Error().Err(err).Msg("stats query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

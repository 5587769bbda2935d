package controllers

import (
	"github.com/gin-gonic/gin"

	"potholemap_server/middleware"
	"potholemap_server/models"
)

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

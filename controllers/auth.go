package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"potholemap_server/dto"
	"potholemap_server/storage"
	"potholemap_server/utils"
)

func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	user, err := h.Users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		}
		log.Error().Err(err).Msg("registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := utils.GenerateJWT(h.Cfg.JWTSecret, h.Cfg.TokenTTL, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Info().Str("username", user.Username).Str("email", user.Email).Msg("new user registered")

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    dto.NewUserProfile(user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email or password"})
		return
	}

	user, err := h.Users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := utils.GenerateJWT(h.Cfg.JWTSecret, h.Cfg.TokenTTL, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Info().Str("username", user.Username).Msg("user logged in")

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    dto.NewUserProfile(user),
	})
}

func (h *Handler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserProfile(user))
}

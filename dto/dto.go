// Package dto holds the request and response shapes of the JSON API and
// registers the custom validation rules they use.
package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"potholemap_server/models"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
			return models.ValidSeverity(fl.Field().String())
		})
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ReportRequest struct {
	Text     string   `json:"text" binding:"required"`
	Lat      *float64 `json:"lat" binding:"required"`
	Lon      *float64 `json:"lon" binding:"required"`
	Severity string   `json:"severity" binding:"required,severity"`

	ImageURL   string               `json:"image_url"`
	ThumbURL   string               `json:"thumb_url"`
	AIConf     *float64             `json:"ai_conf"`
	Detections models.DetectionList `json:"detections"`
}

type CommentRequest struct {
	ReportID uint   `json:"report_id" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

type VoteRequest struct {
	ReportID uint   `json:"report_id" binding:"required"`
	VoteType string `json:"vote_type" binding:"required"`
}

type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

type VerifyRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

type UserProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func NewUserProfile(u *models.User) UserProfile {
	return UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserProfile `json:"user"`
}

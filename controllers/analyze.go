package controllers

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"potholemap_server/ai"
	"potholemap_server/images"
	"potholemap_server/metrics"
	"potholemap_server/models"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

// AnalyzeImage stores the upload, runs best-effort detection, and derives a
// thumbnail plus an annotated copy. Detection failures never fail the
// request; they degrade to an empty detection list.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	if file.Size > h.Cfg.MaxUploadBytes() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}

	name := h.Uploads.FileName(file.Filename)
	path := filepath.Join(h.Uploads.UploadsDir(), name)
	if err := c.SaveUploadedFile(file, path); err != nil {
		log.Error().Err(err).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image processing failed"})
		return
	}

	detections := h.detect(c.Request.Context(), path)
	avgConf := ai.AverageConfidence(detections)

	url := h.Uploads.UploadURL(name)
	thumbURL := h.makeThumb(path)
	annotatedURL := h.annotate(path, detections)

	// When Cloudinary is configured the public URLs point there; local
	// files remain the working copies.
	if mirrored, err := h.Uploads.Mirror(path, strings.TrimSuffix(name, filepath.Ext(name))); err != nil {
		log.Warn().Err(err).Msg("cloudinary mirror failed, keeping local URL")
	} else if mirrored != "" {
		url = mirrored
	}

	log.Info().
		Str("username", user.Username).
		Int("detections", len(detections)).
		Float64("avg_conf", avgConf).
		Msg("image analyzed")

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"url":             url,
		"thumb_url":       thumbURL,
		"annotated_url":   annotatedURL,
		"detections":      detections,
		"detection_count": len(detections),
		"avg_conf":        avgConf,
		"user_id":         user.ID,
	})
}

// detect runs the external detection call with a bounded timeout, outside
// any store transaction.
func (h *Handler) detect(parent context.Context, path string) []models.Detection {
	ctx, cancel := context.WithTimeout(parent, h.Cfg.DetectorTimeout)
	defer cancel()

	start := time.Now()
	detections, err := h.Detector.Detect(ctx, path)
	metrics.DetectionDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		log.Warn().Err(err).Msg("detection failed, continuing without detections")
		metrics.ImagesAnalyzedTotal.WithLabelValues("error").Inc()
		return []models.Detection{}
	case len(detections) == 0:
		metrics.ImagesAnalyzedTotal.WithLabelValues("miss").Inc()
		return []models.Detection{}
	default:
		metrics.ImagesAnalyzedTotal.WithLabelValues("hit").Inc()
		return detections
	}
}

func (h *Handler) makeThumb(path string) interface{} {
	name, err := images.MakeThumb(path, h.Uploads.ThumbsDir())
	if err != nil {
		log.Warn().Err(err).Msg("thumbnail generation failed")
		return nil
	}
	return h.Uploads.ThumbURL(name)
}

func (h *Handler) annotate(path string, detections []models.Detection) interface{} {
	if len(detections) == 0 {
		return nil
	}
	name, err := images.Annotate(path, detections)
	if err != nil {
		log.Warn().Err(err).Msg("annotation failed")
		return nil
	}
	return h.Uploads.UploadURL(name)
}

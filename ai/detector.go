// Package ai wraps the external damage-detection capability. Detection is
// best effort: callers treat any failure as "no detections" and never block
// a report on it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"potholemap_server/models"
)

type Detector interface {
	Detect(ctx context.Context, imagePath string) ([]models.Detection, error)
}

// HTTPDetector posts the image to an external inference service (a hosted
// YOLO-style model) and parses its detection list.
type HTTPDetector struct {
	url     string
	minConf float64
	client  *http.Client
}

func NewHTTPDetector(url string, timeout time.Duration, minConf float64) *HTTPDetector {
	return &HTTPDetector{
		url:     url,
		minConf: minConf,
		client:  &http.Client{Timeout: timeout},
	}
}

func (d *HTTPDetector) Detect(ctx context.Context, imagePath string) ([]models.Detection, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.WriteField("conf", strconv.FormatFloat(d.minConf, 'f', -1, 64)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection service returned status %d", resp.StatusCode)
	}

	var result struct {
		Detections []models.Detection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse detection response: %w", err)
	}
	return result.Detections, nil
}

// Disabled is used when no detection service is configured.
type Disabled struct{}

func (Disabled) Detect(context.Context, string) ([]models.Detection, error) {
	return nil, nil
}

// AverageConfidence returns the mean detection confidence rounded to three
// decimals, or 0 when there are no detections.
func AverageConfidence(detections []models.Detection) float64 {
	if len(detections) == 0 {
		return 0
	}
	var sum float64
	for _, det := range detections {
		sum += det.Conf
	}
	return math.Round(sum/float64(len(detections))*1000) / 1000
}

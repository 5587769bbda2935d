package ai

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potholemap_server/models"
)

func writeTestImage(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "road.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
	return path
}

func TestHTTPDetectorParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "0.25", r.FormValue("conf"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"detections": []models.Detection{
				{Conf: 0.91, Box: []float64{10, 20, 110, 220}, Class: "pothole"},
			},
		})
	}))
	defer server.Close()

	detector := NewHTTPDetector(server.URL, 5*time.Second, 0.25)
	detections, err := detector.Detect(context.Background(), writeTestImage(t))
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, 0.91, detections[0].Conf)
	assert.Equal(t, "pothole", detections[0].Class)
}

func TestHTTPDetectorNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	detector := NewHTTPDetector(server.URL, 5*time.Second, 0.25)
	_, err := detector.Detect(context.Background(), writeTestImage(t))
	assert.ErrorContains(t, err, "status 500")
}

func TestHTTPDetectorMissingFile(t *testing.T) {
	detector := NewHTTPDetector("http://localhost:1", time.Second, 0.25)
	_, err := detector.Detect(context.Background(), "/no/such/file.jpg")
	assert.Error(t, err)
}

func TestHTTPDetectorContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	detector := NewHTTPDetector(server.URL, 5*time.Second, 0.25)
	_, err := detector.Detect(ctx, writeTestImage(t))
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	detections, err := Disabled{}.Detect(context.Background(), "anything.jpg")
	assert.NoError(t, err)
	assert.Nil(t, detections)
}

func TestAverageConfidence(t *testing.T) {
	assert.Zero(t, AverageConfidence(nil))
	assert.Zero(t, AverageConfidence([]models.Detection{}))

	avg := AverageConfidence([]models.Detection{
		{Conf: 0.5}, {Conf: 0.6}, {Conf: 0.7},
	})
	assert.Equal(t, 0.6, avg)

	// Rounded to three decimals.
	avg = AverageConfidence([]models.Detection{{Conf: 0.3333}, {Conf: 0.3333}})
	assert.Equal(t, 0.333, avg)
}

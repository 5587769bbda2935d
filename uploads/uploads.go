// Package uploads names and stores uploaded report images. Files always
// land on local disk first (detection and thumbnailing need a path); when
// Cloudinary is configured the public URLs point there instead.
package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const mirrorTimeout = 30 * time.Second

type Manager struct {
	staticDir string
	cld       *cloudinary.Cloudinary
}

func New(staticDir, cloudinaryURL string) (*Manager, error) {
	m := &Manager{staticDir: staticDir}

	for _, dir := range []string{m.UploadsDir(), m.ThumbsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if cloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(cloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
		}
		m.cld = cld
	}
	return m, nil
}

func (m *Manager) UploadsDir() string {
	return filepath.Join(m.staticDir, "uploads")
}

func (m *Manager) ThumbsDir() string {
	return filepath.Join(m.staticDir, "thumbs")
}

// FileName builds a collision-free stored name preserving the original
// extension.
func (m *Manager) FileName(original string) string {
	ts := time.Now().UTC().Format("20060102150405")
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s_%s%s", ts, uuid.NewString(), ext)
}

func (m *Manager) UploadURL(name string) string {
	return "/static/uploads/" + name
}

func (m *Manager) ThumbURL(name string) string {
	return "/static/thumbs/" + name
}

// Mirror pushes a stored file to Cloudinary and returns its public URL.
// Returns "" when Cloudinary is not configured; the caller keeps the local
// URL in that case.
func (m *Manager) Mirror(path, publicID string) (string, error) {
	if m.cld == nil {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	overwrite := false
	result, err := m.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       "potholes",
		PublicID:     publicID,
		ResourceType: "image",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return result.SecureURL, nil
}

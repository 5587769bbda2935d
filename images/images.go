// Package images produces the derived artifacts for an upload: a bounded
// thumbnail and a copy with detection boxes burned in.
package images

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"potholemap_server/models"
)

const (
	thumbSize     = 480
	boxThickness  = 3
	labelOffsetPx = 6
)

var boxColor = color.NRGBA{R: 255, A: 255}

// MakeThumb writes a thumbnail of src into thumbsDir and returns the file
// name. Formats imaging cannot encode (webp, gif frames) fall back to jpg.
func MakeThumb(src, thumbsDir string) (string, error) {
	img, err := imaging.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)

	name := encodableName("th_" + filepath.Base(src))
	path := filepath.Join(thumbsDir, name)
	if err := imaging.Save(thumb, path, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return name, nil
}

// Annotate draws each detection box and its confidence on a copy of src,
// saved next to it with an _annotated suffix. Returns the new file name.
func Annotate(src string, detections []models.Detection) (string, error) {
	img, err := imaging.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	canvas := imaging.Clone(img)
	bounds := canvas.Bounds()

	for _, det := range detections {
		if len(det.Box) < 4 {
			continue
		}
		x1 := clamp(int(det.Box[0]), bounds.Min.X, bounds.Max.X-1)
		y1 := clamp(int(det.Box[1]), bounds.Min.Y, bounds.Max.Y-1)
		x2 := clamp(int(det.Box[2]), bounds.Min.X, bounds.Max.X-1)
		y2 := clamp(int(det.Box[3]), bounds.Min.Y, bounds.Max.Y-1)
		if x2 <= x1 || y2 <= y1 {
			continue
		}

		drawRect(canvas, x1, y1, x2, y2)
		drawLabel(canvas, fmt.Sprintf("%.2f", det.Conf), x1, y1-labelOffsetPx)
	}

	base := filepath.Base(src)
	ext := filepath.Ext(base)
	name := encodableName(strings.TrimSuffix(base, ext) + "_annotated" + ext)
	path := filepath.Join(filepath.Dir(src), name)
	if err := imaging.Save(canvas, path); err != nil {
		return "", fmt.Errorf("failed to save annotated image: %w", err)
	}
	return name, nil
}

func drawRect(img *image.NRGBA, x1, y1, x2, y2 int) {
	for t := 0; t < boxThickness; t++ {
		for x := x1; x <= x2; x++ {
			img.SetNRGBA(x, y1+t, boxColor)
			img.SetNRGBA(x, y2-t, boxColor)
		}
		for y := y1; y <= y2; y++ {
			img.SetNRGBA(x1+t, y, boxColor)
			img.SetNRGBA(x2-t, y, boxColor)
		}
	}
}

func drawLabel(img *image.NRGBA, text string, x, y int) {
	if y < basicfont.Face7x13.Height {
		y = basicfont.Face7x13.Height
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(boxColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// encodableName swaps extensions imaging cannot save to jpg.
func encodableName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff":
		return name
	default:
		return strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

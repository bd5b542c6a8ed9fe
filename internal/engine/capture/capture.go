// Package capture saves preview frames to disk.
package capture

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Faultbox/meshprep/internal/glyph"
)

// Screenshot writes frames into a directory with timestamped names.
type Screenshot struct {
	outputDir string
	prefix    string
	format    glyph.Format
	now       func() time.Time
}

// NewScreenshot creates a capture handler. An empty outputDir writes to the working
// directory.
func NewScreenshot(outputDir, prefix string, format glyph.Format) *Screenshot {
	return &Screenshot{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// Filename generates the path of the next screenshot without saving.
func (s *Screenshot) Filename() string {
	now := s.now()
	timestamp := fmt.Sprintf("%s-%03d", now.Format("2006-01-02_15-04-05"), now.Nanosecond()/int(time.Millisecond))
	return s.path(fmt.Sprintf("%s_%s", s.prefix, timestamp))
}

func (s *Screenshot) path(base string) string {
	filename := base + "." + s.format.String()
	if s.outputDir != "" {
		filename = filepath.Join(s.outputDir, filename)
	}
	return filename
}

// FromPixels builds an image from bottom-up RGBA rows as returned by glReadPixels.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// SavePixels flips and saves a framebuffer read-back.
func (s *Screenshot) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return s.Save(img)
}

// Save encodes img to a new file and returns its path.
func (s *Screenshot) Save(img image.Image) (string, error) {
	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := s.Filename()
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	for n := 1; errors.Is(err, fs.ErrExist); n++ {
		filename = s.path(fmt.Sprintf("%s_%d", base, n))
		file, err = os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	}
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := glyph.Encode(file, img, s.format); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding %s: %w", s.format, err)
	}
	return filename, file.Close()
}

package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Compile-time interface check.
var _ domain.Illustrator = (*ImageWriter)(nil)

// imager is the slice of Client the image writer needs.
type imager interface {
	Image(ctx context.Context, prompt string) ([]byte, error)
}

// ImageWriter renders step illustrations and saves them under a directory
// that the lesson service serves at urlPrefix.
type ImageWriter struct {
	images    imager
	dir       string
	urlPrefix string
	log       *logger.Logger
}

// NewImageWriter creates an image writer saving into dir.
func NewImageWriter(images imager, dir, urlPrefix string, log *logger.Logger) *ImageWriter {
	return &ImageWriter{images: images, dir: dir, urlPrefix: urlPrefix, log: log}
}

// Illustrate renders one step and returns the public path of the file.
func (w *ImageWriter) Illustrate(ctx context.Context, lessonID string, step int, prompt string) (string, error) {
	img, err := w.images.Image(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating image dir: %w", err)
	}
	name := fmt.Sprintf("%s_step_%d.png", lessonID, step)
	if err := os.WriteFile(filepath.Join(w.dir, name), img, 0o644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}

	w.log.Debug("generate: saved %s (%d bytes)", name, len(img))
	return w.urlPrefix + "/" + name, nil
}

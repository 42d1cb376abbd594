package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

var ErrUnsupportedFormat = errors.New("unsupported target format")

var cacheExtensions = map[string]string{
	"image/jpeg": ".jpeg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageCache re-encodes images into another format under the cache
// directory. The directory is shared with the thumbnail store and is only
// ever cleared as a whole.
type ImageCache struct {
	dir    string
	logger zerolog.Logger
}

func NewImageCache(dir string, logger zerolog.Logger) *ImageCache {
	return &ImageCache{dir: dir, logger: logger}
}

func (c *ImageCache) Dir() string {
	return c.dir
}

// Convert writes the image at srcPath as mimeType and returns the cached file path.
func (c *ImageCache) Convert(id, srcPath, mimeType string) (string, error) {
	ext, ok := cacheExtensions[mimeType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", srcPath, err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", err
	}

	outPath := filepath.Join(c.dir, id+ext)
	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	switch mimeType {
	case "image/jpeg":
		err = imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(100))
	case "image/png":
		err = imaging.Encode(f, img, imaging.PNG)
	case "image/webp":
		err = webp.Encode(f, img, &webp.Options{Lossless: true})
	}
	if err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("failed to encode %s: %w", mimeType, err)
	}

	c.logger.Debug().Str("id", id).Str("mime", mimeType).Str("path", outPath).Msg("image cached")
	return outPath, nil
}

// Clear removes the whole cache directory.
func (c *ImageCache) Clear() error {
	return os.RemoveAll(c.dir)
}

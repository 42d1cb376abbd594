package media

import (
	"bytes"
	"fmt"
	"image"
	"os/exec"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	_ "golang.org/x/image/webp" // WebP source decoding
)

// ThumbnailGenerator renders JPEG thumbnails. Images are decoded directly;
// videos go through ffmpeg for a single frame.
type ThumbnailGenerator struct {
	ffmpegPath string
	quality    int
	logger     zerolog.Logger
}

func NewThumbnailGenerator(quality int, logger zerolog.Logger) *ThumbnailGenerator {
	ffmpegPath := "ffmpeg"
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		ffmpegPath = path
	}

	if quality <= 0 || quality > 100 {
		quality = 100
	}

	return &ThumbnailGenerator{
		ffmpegPath: ffmpegPath,
		quality:    quality,
		logger:     logger,
	}
}

// IsAvailable reports whether video frames can be extracted.
func (t *ThumbnailGenerator) IsAvailable() bool {
	_, err := exec.LookPath(t.ffmpegPath)
	return err == nil
}

// Render fits the medium at path into a width x height box, keeping aspect
// ratio and never upscaling.
func (t *ThumbnailGenerator) Render(kind Kind, path string, width, height int) ([]byte, error) {
	var img image.Image
	var err error

	switch kind {
	case KindVideo:
		img, err = t.videoFrame(path)
	case KindImage:
		img, err = imaging.Open(path, imaging.AutoOrientation(true))
	default:
		return nil, fmt.Errorf("no thumbnails for medium type %q", kind)
	}
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

func (t *ThumbnailGenerator) videoFrame(path string) (image.Image, error) {
	if !t.IsAvailable() {
		return nil, fmt.Errorf("ffmpeg not available")
	}

	// -ss 1 skips black lead-in frames; very short clips need a second try from 0
	frame, err := t.extractFrame(path, "-ss", "1")
	if err != nil {
		t.logger.Debug().Err(err).Str("video", path).Msg("frame at 1s failed, retrying from start")
		frame, err = t.extractFrame(path)
	}
	if err != nil {
		return nil, err
	}

	return imaging.Decode(bytes.NewReader(frame))
}

func (t *ThumbnailGenerator) extractFrame(path string, seek ...string) ([]byte, error) {
	args := append([]string{}, seek...)
	args = append(args,
		"-i", path,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.Command(t.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}

	return stdout.Bytes(), nil
}

package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"photogallery/internal/cache"
	"photogallery/internal/metrics"
)

// ThumbnailService serves rendered thumbnails from memory, then disk, then
// renders and stores them in both.
type ThumbnailService struct {
	generator *ThumbnailGenerator
	cache     *cache.LRUCache
	dir       string
	logger    zerolog.Logger
}

func NewThumbnailService(
	generator *ThumbnailGenerator,
	dir string,
	cacheCapacity int,
	cacheMaxSize int64,
	logger zerolog.Logger,
) *ThumbnailService {
	return &ThumbnailService{
		generator: generator,
		cache:     cache.NewLRUCache(cacheCapacity, cacheMaxSize),
		dir:       dir,
		logger:    logger,
	}
}

func thumbnailKey(id string, width, height int) string {
	return fmt.Sprintf("%s_%dx%d", id, width, height)
}

func (s *ThumbnailService) path(key string) string {
	return filepath.Join(s.dir, key+".jpg")
}

// GetThumbnail returns the JPEG thumbnail of the medium stored at path.
func (s *ThumbnailService) GetThumbnail(kind Kind, id, path string, width, height int) ([]byte, error) {
	key := thumbnailKey(id, width, height)

	if data, ok := s.cache.Get(key); ok {
		metrics.ThumbnailCacheHits.WithLabelValues("memory").Inc()
		return data, nil
	}

	if data, err := os.ReadFile(s.path(key)); err == nil {
		metrics.ThumbnailCacheHits.WithLabelValues("disk").Inc()
		s.cache.Set(key, data)
		return data, nil
	}

	data, err := s.generator.Render(kind, path, width, height)
	if err != nil {
		metrics.ThumbnailsRendered.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}
	metrics.ThumbnailsRendered.WithLabelValues(string(kind), "ok").Inc()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Warn().Err(err).Str("dir", s.dir).Msg("failed to create thumbnail dir")
	} else if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to write thumbnail")
	}

	s.cache.Set(key, data)
	s.logger.Debug().Str("id", id).Int("size", len(data)).Msg("thumbnail rendered")
	return data, nil
}

// Evict drops every cached size of one medium.
func (s *ThumbnailService) Evict(id string) {
	s.cache.DeletePrefix(id + "_")

	matches, err := filepath.Glob(filepath.Join(s.dir, id+"_*.jpg"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("file", m).Msg("failed to remove thumbnail")
		}
	}
}

// Clear empties the memory cache and removes the thumbnail directory.
func (s *ThumbnailService) Clear() error {
	s.cache.Clear()
	return os.RemoveAll(s.dir)
}

// CacheStats returns memory cache statistics
func (s *ThumbnailService) CacheStats() (count int, size int64) {
	return s.cache.Len(), s.cache.Size()
}

package media

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhowden/tag"
	"github.com/rs/zerolog"
	"photogallery/internal/metrics"
	"photogallery/internal/storage"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var ErrScanInProgress = errors.New("scan already in progress")

// ScanStats counts what one scan changed in the index.
type ScanStats struct {
	Images  int `json:"images"`
	Videos  int `json:"videos"`
	Audio   int `json:"audio"`
	Skipped int `json:"skipped"`
	Removed int `json:"removed"`
}

// Scanner mirrors the library folders into the media index. Each folder is
// a bucket; audio is grouped by its album tag.
type Scanner struct {
	storage  *storage.SQLiteStorage
	metadata *MetadataExtractor
	logger   zerolog.Logger
	scanning bool
	mu       sync.Mutex
}

func NewScanner(store *storage.SQLiteStorage, metadata *MetadataExtractor, logger zerolog.Logger) *Scanner {
	return &Scanner{
		storage:  store,
		metadata: metadata,
		logger:   logger,
	}
}

func (s *Scanner) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// Scan removes rows for vanished files, then indexes new or changed files
// under every root.
func (s *Scanner) Scan(roots []string) (ScanStats, error) {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return ScanStats{}, ErrScanInProgress
	}
	s.scanning = true
	s.mu.Unlock()

	metrics.ScannerIsRunning.Set(1)
	defer func() {
		s.mu.Lock()
		s.scanning = false
		s.mu.Unlock()
		metrics.ScannerIsRunning.Set(0)
	}()
	metrics.ScannerRunsTotal.Inc()

	var stats ScanStats

	removed, err := s.CleanupDeletedFiles()
	if err != nil {
		s.logger.Warn().Err(err).Msg("cleanup failed, continuing with scan")
	}
	stats.Removed = removed

	if len(roots) == 0 {
		s.logger.Warn().Msg("no library paths configured")
		return stats, nil
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			s.logger.Error().Err(err).Str("path", root).Msg("library path unavailable")
			continue
		}
		if !info.IsDir() {
			continue
		}

		root = filepath.Clean(root)
		s.logger.Info().Str("path", root).Msg("scanning library")

		if err := s.scanRoot(root, &stats); err != nil {
			s.logger.Error().Err(err).Str("path", root).Msg("failed to scan library")
		}
	}

	s.logger.Info().
		Int("images", stats.Images).
		Int("videos", stats.Videos).
		Int("audio", stats.Audio).
		Int("skipped", stats.Skipped).
		Int("removed", stats.Removed).
		Msg("scan completed")

	return stats, nil
}

func (s *Scanner) scanRoot(root string, stats *ScanStats) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("failed to read entry")
			return nil
		}

		if d.IsDir() {
			// hidden directories hold app state, not media
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		kind, ok := KindOf(d.Name())
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.logger.Error().Err(err).Str("path", path).Msg("failed to get file info")
			return nil
		}

		indexed, err := s.indexFile(kind, path, info)
		if err != nil {
			s.logger.Error().Err(err).Str("path", path).Msg("failed to index file")
			return nil
		}
		if !indexed {
			stats.Skipped++
			return nil
		}

		metrics.ScannerFilesIndexed.WithLabelValues(string(kind)).Inc()
		switch kind {
		case KindImage:
			stats.Images++
		case KindVideo:
			stats.Videos++
		case KindAudio:
			stats.Audio++
		}
		return nil
	})
}

// indexFile writes one file to the index. Unchanged files are skipped.
func (s *Scanner) indexFile(kind Kind, path string, info fs.FileInfo) (bool, error) {
	id := generateID(path)
	modified := info.ModTime().Unix()

	exists, err := s.storage.Exists(kind.collection(), id, modified)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	name := info.Name()
	title := strings.TrimSuffix(name, filepath.Ext(name))
	dir := filepath.Dir(path)

	switch kind {
	case KindImage:
		width, height, orientation := s.imageInfo(path)
		err = s.storage.UpsertImage(&storage.ImageEntry{
			ID:           id,
			BucketID:     generateID(dir),
			BucketName:   filepath.Base(dir),
			DisplayName:  name,
			Title:        title,
			Width:        width,
			Height:       height,
			Size:         info.Size(),
			Orientation:  orientation,
			MimeType:     GetContentType(name),
			DateModified: modified,
			Path:         path,
		})

	case KindVideo:
		meta := s.probe(path)
		err = s.storage.UpsertVideo(&storage.VideoEntry{
			ID:           id,
			BucketID:     generateID(dir),
			BucketName:   filepath.Base(dir),
			DisplayName:  name,
			Title:        title,
			Width:        meta.Width,
			Height:       meta.Height,
			Size:         info.Size(),
			MimeType:     GetContentType(name),
			Duration:     meta.Duration,
			DateModified: modified,
			Path:         path,
		})

	case KindAudio:
		entry := &storage.AudioEntry{
			ID:           id,
			DisplayName:  name,
			Title:        title,
			Size:         info.Size(),
			MimeType:     GetContentType(name),
			Duration:     s.probe(path).Duration,
			DateModified: modified,
			Path:         path,
		}
		s.readTags(path, entry)
		err = s.storage.UpsertAudio(entry)
	}
	if err != nil {
		return false, err
	}

	s.logger.Debug().Str("path", path).Str("kind", string(kind)).Msg("indexed")
	return true, nil
}

// imageInfo reads dimensions from the header and the EXIF rotation in degrees.
func (s *Scanner) imageInfo(path string) (width, height, degrees int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("unreadable image header")
	} else {
		width, height = cfg.Width, cfg.Height
	}

	if _, err := f.Seek(0, io.SeekStart); err == nil {
		degrees = degreesFromOrientation(readOrientation(f))
	}
	return width, height, degrees
}

func (s *Scanner) probe(path string) Metadata {
	if s.metadata == nil || !s.metadata.IsAvailable() {
		return Metadata{}
	}
	meta, err := s.metadata.Extract(path)
	if err != nil {
		return Metadata{}
	}
	return *meta
}

func (s *Scanner) readTags(path string, e *storage.AudioEntry) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	album := "Unknown"
	if m, err := tag.ReadFrom(f); err == nil {
		if m.Title() != "" {
			e.Title = m.Title()
		}
		e.Artist = m.Artist()
		if m.Album() != "" {
			album = m.Album()
		}
	} else {
		s.logger.Debug().Err(err).Str("path", path).Msg("no audio tags")
	}

	e.Album = album
	e.AlbumID = generateID("album:" + strings.ToLower(album))
}

func generateID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

// CleanupDeletedFiles removes index rows whose file no longer exists.
func (s *Scanner) CleanupDeletedFiles() (int, error) {
	var removed int

	for _, c := range []storage.Collection{storage.Images, storage.Videos, storage.Audio} {
		paths, err := s.storage.AllPaths(c)
		if err != nil {
			return removed, err
		}

		for id, path := range paths {
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				continue
			}
			if _, err := s.storage.Delete(c, id); err != nil {
				s.logger.Error().Err(err).Str("path", path).Msg("failed to delete missing medium")
				continue
			}
			removed++
			s.logger.Debug().Str("path", path).Msg("deleted missing medium")
		}
	}

	if removed > 0 {
		s.logger.Info().Int("media", removed).Msg("cleanup completed")
	}
	return removed, nil
}

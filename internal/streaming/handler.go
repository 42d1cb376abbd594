package streaming

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"photogallery/internal/media"
)

// Handler serves media files with range support. Only files under the
// library roots or the cache directory are served.
type Handler struct {
	allowed []string
}

func NewHandler(roots []string, cacheDir string) *Handler {
	allowed := make([]string, 0, len(roots)+1)
	for _, dir := range append(append([]string{}, roots...), cacheDir) {
		if dir == "" {
			continue
		}
		if abs, err := filepath.Abs(dir); err == nil {
			allowed = append(allowed, abs)
		}
	}
	return &Handler{allowed: allowed}
}

// Allowed reports whether filePath lies under a served directory.
func (h *Handler) Allowed(filePath string) bool {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}
	for _, dir := range h.allowed {
		rel, err := filepath.Rel(dir, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request, filePath string) {
	if !h.Allowed(filePath) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	// a cache clean may remove a converted file between lookup and open
	file, err := os.Open(filePath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		http.Error(w, "Cannot read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", media.GetContentType(filePath))
	w.Header().Set("Accept-Ranges", "bytes")

	http.ServeContent(w, r, filepath.Base(filePath), stat.ModTime(), file)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 6541, cfg.Server.Port)
	assert.Equal(t, "auto", cfg.Index.Paging)
	assert.True(t, cfg.Library.DeleteConsent)
	assert.Equal(t, 100, cfg.Thumbnails.Quality)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
library:
  paths: ["/srv/photos", "/srv/videos"]
  delete_consent: false
  watch_debounce: 5s
index:
  paging: textual
logging:
  level: debug
  pretty: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"/srv/photos", "/srv/videos"}, cfg.Library.Paths)
	assert.False(t, cfg.Library.DeleteConsent)
	assert.Equal(t, 5*time.Second, cfg.Library.WatchDebounce)
	assert.Equal(t, "textual", cfg.Index.Paging)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Pretty)
	assert.Equal(t, "data/cache", cfg.Thumbnails.CacheDir)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Library    LibraryConfig    `yaml:"library"`
	Database   DatabaseConfig   `yaml:"database"`
	Index      IndexConfig      `yaml:"index"`
	Thumbnails ThumbnailsConfig `yaml:"thumbnails"`
	Worker     WorkerConfig     `yaml:"worker"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LibraryConfig struct {
	Paths []string `yaml:"paths"`
	// Watch rescans the library when files change on disk.
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	// DeleteConsent parks every deletion until the caller grants it.
	DeleteConsent bool `yaml:"delete_consent"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// IndexConfig controls how the media index applies offset/limit.
// Paging is one of "auto", "native" or "textual".
type IndexConfig struct {
	Paging string `yaml:"paging"`
}

type ThumbnailsConfig struct {
	CacheDir      string `yaml:"cache_dir"`
	CacheCapacity int    `yaml:"cache_capacity"`
	CacheMaxSize  int64  `yaml:"cache_max_size"` // bytes
	Quality       int    `yaml:"quality"`
}

type WorkerConfig struct {
	QueueSize int `yaml:"queue_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         6541,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 0,
		},
		Library: LibraryConfig{
			Paths:         nil,
			Watch:         true,
			WatchDebounce: 2 * time.Second,
			DeleteConsent: true,
		},
		Database: DatabaseConfig{
			Path: "data/gallery.db",
		},
		Index: IndexConfig{
			Paging: "auto",
		},
		Thumbnails: ThumbnailsConfig{
			CacheDir:      "data/cache",
			CacheCapacity: 1000,
			CacheMaxSize:  256 * 1024 * 1024, // 256 MB
			Quality:       100,
		},
		Worker: WorkerConfig{
			QueueSize: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

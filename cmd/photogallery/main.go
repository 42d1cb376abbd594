package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"photogallery/internal/api"
	"photogallery/internal/bridge"
	"photogallery/internal/config"
	"photogallery/internal/deletion"
	"photogallery/internal/media"
	"photogallery/internal/server"
	"photogallery/internal/storage"
	"photogallery/internal/streaming"
	"photogallery/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("version", api.Version).
		Msg("starting photo gallery server")

	paging, err := storage.ParsePagingMode(cfg.Index.Paging)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid index paging mode")
	}

	// Initialize storage
	store, err := storage.NewSQLiteStorage(cfg.Database.Path, paging)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer store.Close()

	logger.Info().Str("paging", string(store.Paging())).Msg("media index ready")

	metadataExtractor := media.NewMetadataExtractor(logger)
	thumbnailGenerator := media.NewThumbnailGenerator(cfg.Thumbnails.Quality, logger)

	// Log ffmpeg/ffprobe availability
	if metadataExtractor.IsAvailable() {
		logger.Info().Msg("ffprobe available - video and audio metadata enabled")
	} else {
		logger.Warn().Msg("ffprobe not found - video and audio metadata disabled")
	}
	if thumbnailGenerator.IsAvailable() {
		logger.Info().Msg("ffmpeg available - video thumbnails enabled")
	} else {
		logger.Warn().Msg("ffmpeg not found - video thumbnails disabled")
	}

	thumbnailService := media.NewThumbnailService(
		thumbnailGenerator,
		filepath.Join(cfg.Thumbnails.CacheDir, "thumbnails"),
		cfg.Thumbnails.CacheCapacity,
		cfg.Thumbnails.CacheMaxSize,
		logger,
	)
	imageCache := media.NewImageCache(cfg.Thumbnails.CacheDir, logger)
	deletions := deletion.NewRegistry(cfg.Library.DeleteConsent, logger)

	gallery := media.NewGallery(store, thumbnailService, imageCache, deletions, cfg.Library.Paths, logger)

	// All bridge work runs on a single worker
	queue := worker.New(cfg.Worker.QueueSize, logger)
	queue.Start()
	defer queue.Close()

	dispatcher := bridge.NewDispatcher(gallery, queue, logger)
	streamer := streaming.NewHandler(cfg.Library.Paths, cfg.Thumbnails.CacheDir)
	scanner := media.NewScanner(store, metadataExtractor, logger)

	handler := api.NewHandler(dispatcher, streamer, cfg.Library.Paths, string(store.Paging()), logger)
	handler.SetScanner(scanner)

	srv := server.New(cfg, logger, handler)

	// Initial scan if library paths configured
	if len(cfg.Library.Paths) > 0 {
		go func() {
			logger.Info().
				Strs("paths", cfg.Library.Paths).
				Msg("starting initial library scan")
			if _, err := scanner.Scan(cfg.Library.Paths); err != nil {
				logger.Error().Err(err).Msg("initial scan failed")
			} else {
				logger.Info().Msg("initial scan completed")
			}
		}()
	}

	if cfg.Library.Watch && len(cfg.Library.Paths) > 0 {
		watcher, err := media.NewWatcher(cfg.Library.Paths, cfg.Library.WatchDebounce, func() {
			if _, err := scanner.Scan(cfg.Library.Paths); err != nil && !errors.Is(err, media.ErrScanInProgress) {
				logger.Error().Err(err).Msg("rescan failed")
			}
		}, logger)
		if err != nil {
			logger.Error().Err(err).Msg("failed to create library watcher")
		} else if err := watcher.Start(); err != nil {
			logger.Error().Err(err).Msg("failed to start library watcher")
		} else {
			defer watcher.Close()
		}
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info().Msg("received shutdown signal")

		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Error().Err(err).Msg("server error")
	}

	logger.Info().Msg("server stopped")
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}

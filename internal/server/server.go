package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"photogallery/internal/api"
	"photogallery/internal/config"
)

type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	httpServer *http.Server
	router     *chi.Mux
	handler    *api.Handler
}

func New(cfg *config.Config, logger zerolog.Logger, handler *api.Handler) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		handler: handler,
	}

	s.router = chi.NewRouter()
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(CORSMiddleware)
	s.router.Use(LoggingMiddleware(s.logger))
	if s.cfg.Metrics.Enabled {
		s.router.Use(MetricsMiddleware)
	}
}

func (s *Server) setupRoutes() {
	if s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, promhttp.Handler())
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handler.Health)

		// Bridge calls
		r.Post("/call", s.handler.Call)
		r.Get("/channel", s.handler.Channel)

		r.Get("/albums", s.handler.ListAlbums)
		r.Get("/albums/{id}/media", s.handler.ListMedia)
		r.Get("/albums/{id}/thumbnail", s.handler.GetAlbumThumbnail)

		r.Get("/media/{id}", s.handler.GetMedium)
		r.Delete("/media/{id}", s.handler.DeleteMedium)
		r.Get("/media/{id}/thumbnail", s.handler.GetThumbnail)
		r.Get("/media/{id}/file", s.handler.GetFile)
		r.Get("/media/{id}/stream", s.handler.StreamMedium)

		r.Get("/deletions/{id}", s.handler.GetDeletion)
		r.Post("/deletions/{id}/grant", s.handler.GrantDeletion)
		r.Post("/deletions/{id}/deny", s.handler.DenyDeletion)

		r.Get("/music", s.handler.ListMusicFiles)
		r.Delete("/cache", s.handler.CleanCache)
		r.Post("/library/scan", s.handler.ScanLibrary)
	})
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.httpServer.Addr).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// Package server exposes the lesson service over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/railroad/internal/api"
	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Config holds the HTTP settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	ImageDir       string
}

// Server is the lesson service HTTP front.
type Server struct {
	cfg    Config
	router *gin.Engine
	log    *logger.Logger
}

// New builds the router for svc.
func New(svc domain.LessonService, cfg Config, log *logger.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log), corsMiddleware(cfg.AllowedOrigins))

	h := NewLessonHandler(svc, log)
	router.GET(api.PathHealth, h.Health)
	router.POST(api.PathLogin, h.Login)
	router.GET(api.PathGetLessons, h.GetLessons)
	router.POST(api.PathCreateLesson, h.CreateLesson)
	if cfg.ImageDir != "" {
		router.Static(api.PathImages, cfg.ImageDir)
	}

	return &Server{cfg: cfg, router: router, log: log}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("lesson service listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down lesson service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Package server provides the HTTP server for the card delivery document
// service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Malikabakr/bank-project/pkg/batch"
	"github.com/Malikabakr/bank-project/pkg/batch/processor"
	"github.com/Malikabakr/bank-project/pkg/config"
	"github.com/Malikabakr/bank-project/pkg/render"
	"github.com/Malikabakr/bank-project/pkg/server/handlers"
	"github.com/Malikabakr/bank-project/pkg/server/middleware"
	"github.com/Malikabakr/bank-project/pkg/store"
	"github.com/Malikabakr/bank-project/pkg/telemetry/health"
	"github.com/Malikabakr/bank-project/pkg/telemetry/metrics"
)

// Options carries the server's dependencies.
type Options struct {
	Config    *config.Config
	Store     *store.FileStore
	Tracker   *batch.Tracker
	Processor *processor.Processor
	Renderer  *render.Renderer
	Metrics   *metrics.Collector
}

// Server is the HTTP front of the service.
type Server struct {
	config       *config.Config
	store        *store.FileStore
	tracker      *batch.Tracker
	processor    *processor.Processor
	renderer     *render.Renderer
	metrics      *metrics.Collector
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new server. Start actually binds the listener.
func NewServer(opts Options) *Server {
	return &Server{
		config:       opts.Config,
		store:        opts.Store,
		tracker:      opts.Tracker,
		processor:    opts.Processor,
		renderer:     opts.Renderer,
		metrics:      opts.Metrics,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"address", s.config.Server.ListenAddress,
			"max_upload_bytes", s.config.Server.MaxUploadBytes,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String(),
		)

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// Stop requests a shutdown from outside Start's select loop.
func (s *Server) Stop() {
	select {
	case s.shutdownChan <- struct{}{}:
	default:
	}
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	maxUpload := s.config.Server.MaxUploadBytes

	uploadHandler := handlers.NewUploadHandler(s.store, s.tracker, s.processor, s.metrics, maxUpload)
	progressHandler := handlers.NewProgressHandler(s.tracker)
	artifactHandler := handlers.NewArtifactHandler(s.store)
	sessionHandler := handlers.NewSessionHandler(s.store, s.tracker)
	convertHandler := handlers.NewConvertHandler(s.store, s.renderer, s.metrics, maxUpload)

	route := func(pattern, label string, h http.Handler) {
		mux.Handle(pattern, middleware.Metrics(s.metrics, label)(h))
	}

	route("POST /api/v1/batches", "/api/v1/batches", uploadHandler)
	route("GET /api/v1/batches/{id}", "/api/v1/batches/{id}", progressHandler)
	route("GET /api/v1/artifacts/{id}", "/api/v1/artifacts/{id}", artifactHandler)
	route("DELETE /api/v1/session", "/api/v1/session", sessionHandler)
	route("POST /api/v1/convert/table", "/api/v1/convert/table", convertHandler)

	checker := health.New(0)
	checker.RegisterCheck("index", func(ctx context.Context) error {
		_, err := s.store.Count(ctx)
		return err
	})

	mux.Handle("GET /health", checker.LivenessHandler())
	mux.Handle("GET /ready", checker.ReadinessHandler())
	if s.config.Telemetry.Metrics.Enabled && s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux

	handler = middleware.CORS(middleware.DefaultCORSConfig())(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Session(s.config.Server.SessionCookie)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// Package server provides the thin JSON API over the resume pipeline.
package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/pipeline"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	assembler  *pipeline.Assembler
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a server instance. timeout bounds each request's pipeline run.
func New(addr string, assembler *pipeline.Assembler, timeout time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		assembler: assembler,
		timeout:   timeout,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/resume", s.handleResume)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start runs the server until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

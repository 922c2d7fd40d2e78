// Package server exposes the HTTP API: the batch resolution endpoint and
// the guarded metered endpoint.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// maxBodyBytes bounds request payloads; a 20-domain batch fits in a
// fraction of this.
const maxBodyBytes = 64 * 1024

// Server routes and serves the public API.
type Server struct {
	router  *http.ServeMux
	logger  *slog.Logger
	checker BatchChecker
	guards  Admitter
	premium MeteredChecker

	trustForwardedFor bool
}

// New creates a Server wired to the resolution engine and guard chain.
func New(checker BatchChecker, guards Admitter, premium MeteredChecker, trustForwardedFor bool, logger *slog.Logger) *Server {
	s := &Server{
		router:            http.NewServeMux(),
		logger:            logger,
		checker:           checker,
		guards:            guards,
		premium:           premium,
		trustForwardedFor: trustForwardedFor,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler with the recover boundary applied.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			// Outermost boundary: no detail disclosure.
			s.logger.Error("request handler panic", "path", r.URL.Path, "panic", rec)
			s.respond(w, errorResponse{Error: "internal"}, http.StatusInternalServerError)
		}
	}()
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("POST /v1/batch", s.handleBatch())
	s.router.HandleFunc("POST /v1/domain", s.handleDomain())
	s.router.HandleFunc("GET /health", s.handleHealth())
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Helper methods

func (s *Server) respond(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.Error("failed to encode response", "error", err)
		}
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

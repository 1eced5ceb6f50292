// Package health serves the liveness and readiness probes for vaani.
//
// /healthz answers 200 as long as the process serves HTTP. /readyz answers
// 200 only after every transport has been started and 503 while starting
// or draining.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Status is the probe response body.
type Status struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Server is a lightweight HTTP server for the probes.
type Server struct {
	port    int
	version string
	ready   atomic.Bool
}

// New creates a new health check server.
func New(port int, version string) *Server {
	return &Server{port: port, version: version}
}

// SetReady marks the service as ready (or no longer ready) for traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Ready reports the current readiness.
func (s *Server) Ready() bool {
	return s.ready.Load()
}

// Handler returns the probe routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.write(w, http.StatusOK, "ok")
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			s.write(w, http.StatusServiceUnavailable, "not_ready")
			return
		}
		s.write(w, http.StatusOK, "ok")
	})

	return mux
}

func (s *Server) write(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Status{Status: status, Version: s.version})
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

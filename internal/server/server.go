// Package server exposes the liveness probe and, in webhook mode, the
// endpoint Telegram pushes updates to.
package server

import (
	"log/slog"
	"net/http"
	"time"
)

const statusBody = `{"status":"Bot online!"}`

type Server struct {
	http.Server
	logger *slog.Logger
}

// New builds the server. webhook may be nil when updates are long-polled.
func New(addr, webhookPath string, webhook http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		logger: logger,
	}

	// GET patterns also match HEAD
	mux.HandleFunc("GET /{$}", handleStatus)
	mux.HandleFunc("GET /healthz", handleHealth)
	if webhook != nil {
		mux.Handle("POST "+webhookPath, s.withLogging(webhook))
	}
	return s
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(statusBody))
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("Webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

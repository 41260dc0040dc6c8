// Package web serves feature tables over HTTP.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/featureprep/internal/config"
	"github.com/JonMunkholm/featureprep/internal/core"
	weblog "github.com/JonMunkholm/featureprep/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Defaults used when a request does not name a file or target.
type Defaults struct {
	RawFilename  string
	TargetColumn string
	PreviewRows  int
}

// Server is the HTTP front end of a feature pipeline.
type Server struct {
	pipeline *core.Pipeline
	defaults Defaults
	cfg      config.ServerConfig
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server that builds tables with pipeline.
func NewServer(pipeline *core.Pipeline, defaults Defaults, cfg config.ServerConfig) *Server {
	if defaults.PreviewRows <= 0 {
		defaults.PreviewRows = core.DefaultPreviewRows
	}
	s := &Server{
		pipeline: pipeline,
		defaults: defaults,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(weblog.Logger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/preview", s.handlePreviewPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/features", s.handleFeatures)
		r.Get("/preview", s.handlePreview)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// ShutdownTimeout is how long Shutdown may take, falling back to 30s.
func (s *Server) ShutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout <= 0 {
		return 30 * time.Second
	}
	return s.cfg.ShutdownTimeout
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		// Pages are static HTML with inline styles only.
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
	}
}

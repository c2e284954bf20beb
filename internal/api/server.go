// Package api provides the HTTP surface: centre search for victims and the
// upload/confirm dataset-replacement flow for administrators.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sahara-sahaya/relief-cli/internal/dataset"
)

// Server serves the relief-centre API over chi.
type Server struct {
	store     *dataset.Store
	adminPass string
	router    *chi.Mux
}

// Option configures the Server.
type Option func(*Server)

// WithAdminPass gates the admin endpoints behind a shared password sent in
// the X-Admin-Pass header. Empty disables the check.
func WithAdminPass(pass string) Option {
	return func(s *Server) {
		s.adminPass = pass
	}
}

// NewServer creates a Server over the given dataset store.
func NewServer(store *dataset.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		router: chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/centres", s.handleCentres)

	s.router.Route("/api/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/upload", s.handleUpload)
		r.Post("/confirm", s.handleConfirm)
		r.Post("/discard", s.handleDiscard)
	})
}

// requireAdmin checks the shared admin password when one is configured.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminPass != "" && r.Header.Get("X-Admin-Pass") != s.adminPass {
			writeError(w, http.StatusUnauthorized, "admin password required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
